// Copyright 2026 Michael J. Fromberger. All Rights Reserved.
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

// Program rkmatch reports how much of a query document occurs in one or more
// reference documents, by matching fixed-size chunks of the query.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/creachadair/command"
	"github.com/creachadair/rkmatch/cmd/rkmatch/config"

	// Subcommands.
	"github.com/creachadair/rkmatch/cmd/rkmatch/internal/cmdhash"
	"github.com/creachadair/rkmatch/cmd/rkmatch/internal/cmdmatch"
)

var configPath = "$HOME/.config/rkmatch/config.yml"

func main() {
	command.RunOrFail(newRoot().NewEnv(nil), os.Args[1:])
}

func newRoot() *command.C {
	return &command.C{
		Name: filepath.Base(os.Args[0]),
		Usage: `<command> [arguments]
help [<command>]`,
		Help: `A command-line tool to match document chunks by rolling hash.

Settings are read from a YAML configuration file if one exists, and
may be overridden by command-line flags. Set RKMATCH_CONFIG or -config
to choose the file.`,

		SetFlags: func(env *command.Env, fs *flag.FlagSet) {
			if cf, ok := os.LookupEnv("RKMATCH_CONFIG"); ok && cf != "" {
				configPath = cf
			}
			fs.StringVar(&configPath, "config", configPath, "Configuration file path")
		},

		Init: func(env *command.Env) error {
			cfg, err := config.Load(os.ExpandEnv(configPath))
			if err != nil {
				return err
			}
			env.Config = cfg
			return nil
		},

		Commands: []*command.C{
			cmdmatch.Command,
			cmdhash.Command,
			command.HelpCommand(nil),
		},
	}
}
