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

// Package cmd wires the CLI: flag binding through viper, the way the
// teacher's cmd/root.go binds its own flags, then the mount lifecycle
// (SPEC_FULL.md §4.9).
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagClusterName = "cluster-name"
	flagConfigPath  = "config-path"
)

// NewRootCmd builds the `kufu mount` command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kufu",
		Short: "Project live cluster state as a FUSE filesystem",
	}

	root.AddCommand(newMountCmd())
	return root
}

func bindFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagClusterName, "local", "name of the cluster as it appears under the mount point")
	cmd.Flags().StringP(flagConfigPath, "c", "", "path to the kufu config file")

	_ = viper.BindPFlag(flagClusterName, cmd.Flags().Lookup(flagClusterName))
	_ = viper.BindPFlag(flagConfigPath, cmd.Flags().Lookup(flagConfigPath))
}
