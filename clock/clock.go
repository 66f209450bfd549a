// Copyright 2024 The kufu Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package clock supplies the time source used for inode timestamps
// (last_accessed, last_modified, last_metadata_changed). Every component
// that stamps an inode takes a Clock instead of calling time.Now directly,
// so that store and manager tests can drive time deterministically with
// SimulatedClock.
package clock

import "time"

// Clock mirrors the Now surface of jacobsa/timeutil.Clock; it is redeclared
// locally so that packages depending on it don't need to import
// jacobsa/timeutil just for the interface. Only Now is declared because
// nothing in this repository schedules work off a clock's After channel —
// inode timestamps are the only consumer.
type Clock interface {
	Now() time.Time
}

// RealClock is backed by the system clock.
type RealClock struct{}

var _ Clock = RealClock{}

func (RealClock) Now() time.Time {
	return time.Now()
}
