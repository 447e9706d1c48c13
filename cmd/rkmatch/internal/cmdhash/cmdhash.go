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

package cmdhash

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/creachadair/command"
	"github.com/creachadair/rkmatch/cmd/rkmatch/config"
	"github.com/creachadair/rkmatch/rkhash"
)

var hashFlags struct {
	Size    *int
	Count   int
	Modulus uint64
}

var Command = &command.C{
	Name:  "hash",
	Usage: "<file>",
	Help: `Print the rolling hashes of the windows of a normalized document.

Each output line gives the offset of a window and its hash. Each hash is
checked against a direct computation over the same window.`,

	SetFlags: func(_ *command.Env, fs *flag.FlagSet) {
		fs.Func("k", "Window size in bytes (default 100)", func(s string) error {
			k, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			hashFlags.Size = &k
			return nil
		})
		fs.IntVar(&hashFlags.Count, "n", 10, "Print at most this many windows (0 for all)")
		fs.Uint64Var(&hashFlags.Modulus, "q", 0, "Prime modulus for hashing")
	},

	Run: func(env *command.Env, args []string) error {
		if len(args) != 1 {
			return env.Usagef("usage is: <file>")
		}
		cfg := *env.Config.(*config.Settings)
		if hashFlags.Size != nil {
			cfg.ChunkSize = hashFlags.Size
		}
		if hashFlags.Modulus != 0 {
			cfg.Hash.Modulus = hashFlags.Modulus
		}
		text, err := config.ReadDocument(args[0])
		if err != nil {
			return err
		}
		return Print(os.Stdout, &cfg, text, hashFlags.Count)
	},
}

// Print writes the offset and hash of the first n windows of text to w, or
// of all windows if n ≤ 0. It reports an error if a rolled hash disagrees
// with the hash computed directly.
func Print(w io.Writer, cfg *config.Settings, text []byte, n int) error {
	k := cfg.Size()
	h, err := rkhash.New(k, &cfg.Hash)
	if err != nil {
		return err
	}
	for i, v := range h.Windows(text) {
		if n > 0 && i >= n {
			break
		}
		if want := h.Sum(text[i : i+k]); v != want {
			return fmt.Errorf("offset %d: rolled hash %d != direct hash %d", i, v, want)
		}
		fmt.Fprintf(w, "%d\t%d\n", i, v)
	}
	return nil
}
