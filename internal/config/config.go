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

// Package config loads the on-disk YAML config (spec.md §6) the way the
// teacher's cfg package loads its own YAML config: a plain yaml.Unmarshal
// into tagged structs, validated after decode.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clusterfs/kufu/internal/kerrors"
	"github.com/clusterfs/kufu/internal/kube"
)

// MountConfig is spec.md §6's "mount" block.
type MountConfig struct {
	DataPath string `yaml:"data-path"`
	Path     string `yaml:"path"`
}

// Config is the full decoded configuration file (spec.md §6).
type Config struct {
	Mount       MountConfig         `yaml:"mount"`
	Resources   []kube.TypeMeta     `yaml:"resources"`
	KubeConfigs []kube.ConfigSource `yaml:"kube-configs"`
}

// Load reads and parses the config file at path, failing with
// ErrConfigReadFail if it cannot be read or parsed, and validating that
// every kube-configs entry sets at least one of config-path/raw; an entry
// that sets both is accepted.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrConfigReadFail, path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", kerrors.ErrConfigReadFail, path, err)
	}

	for i, kc := range cfg.KubeConfigs {
		if kc.ConfigPath == "" && kc.Raw == "" {
			return nil, fmt.Errorf("%w: kube-configs[%d] has neither config-path nor raw", kerrors.ErrConfigReadFail, i)
		}
	}

	return &cfg, nil
}
