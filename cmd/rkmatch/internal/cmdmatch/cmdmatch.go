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

package cmdmatch

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/creachadair/command"
	"github.com/creachadair/rkmatch/bloom"
	"github.com/creachadair/rkmatch/cmd/rkmatch/config"
	"github.com/creachadair/rkmatch/match"
)

// PrintBloomBits is the number of filter bits printed in batched mode.
const PrintBloomBits = 160

var matchFlags struct {
	Mode     string
	Size     *int
	Modulus  uint64
	Distinct bool
	Report   string
}

var Command = &command.C{
	Name:  "match",
	Usage: "[<chunk-size>] <query-file> <reference-file>...",
	Help: `Match the chunks of a query document against reference documents.

The query is normalized and cut into non-overlapping chunks of the chunk size.
For each reference file, print how many of the chunks occur in the reference.

Modes (-t):
  0, brute, brute-force      compare each chunk against every position
  1, rk, single-hash         one rolling-hash scan per chunk
  2, batch, batched-bloom    one rolling-hash scan against a Bloom filter

In single-hash mode the first 5 window hashes of each scan are printed.
In batched mode the first 160 bits of the filter are printed in hex.

A chunk size of zero or less cuts the query into zero chunks, and every
result is 0 out of 0.`,

	SetFlags: func(_ *command.Env, fs *flag.FlagSet) {
		fs.StringVar(&matchFlags.Mode, "t", "", "Match mode (default brute-force)")
		fs.Func("k", "Chunk size in bytes (default 100)", func(s string) error {
			k, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			matchFlags.Size = &k
			return nil
		})
		fs.Uint64Var(&matchFlags.Modulus, "q", 0, "Prime modulus for hashing")
		fs.BoolVar(&matchFlags.Distinct, "distinct", false, "Count each chunk at most once in batched mode")
		fs.StringVar(&matchFlags.Report, "report", "", "Write a YAML report to this path")
	},

	Run: runMatch,
}

// chunkArgs consumes a leading chunk size from args, if there is one, and
// returns the remaining arguments. A chunk size is recognized only if it is
// followed by a query and at least one reference.
func chunkArgs(cfg *config.Settings, args []string) []string {
	if len(args) < 3 {
		return args
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		return args
	}
	cfg.ChunkSize = &k
	return args[1:]
}

func runMatch(env *command.Env, args []string) error {
	cfg := *env.Config.(*config.Settings)
	args = chunkArgs(&cfg, args)
	if len(args) < 2 {
		return env.Usagef("missing <query-file> <reference-file>...")
	}
	if matchFlags.Mode != "" {
		cfg.Mode = matchFlags.Mode
	}
	if matchFlags.Size != nil {
		cfg.ChunkSize = matchFlags.Size
	}
	if matchFlags.Modulus != 0 {
		cfg.Hash.Modulus = matchFlags.Modulus
	}
	if matchFlags.Distinct {
		cfg.Distinct = true
	}

	rep, err := Match(os.Stdout, &cfg, args[0], args[1:])
	if err != nil {
		return err
	}
	if matchFlags.Report != "" {
		return config.WriteReport(matchFlags.Report, rep)
	}
	return nil
}

// Match matches the document at queryPath against each of the documents at
// refPaths using the settings from cfg. Diagnostics and one result line per
// reference are written to w.
func Match(w io.Writer, cfg *config.Settings, queryPath string, refPaths []string) (*config.Report, error) {
	mode, err := cfg.MatchMode()
	if err != nil {
		return nil, err
	}
	opts := cfg.MatchOptions()
	opts.OnScan = func(_ int, hashes []uint64) {
		if len(hashes) == 0 {
			return // reference shorter than a chunk
		}
		vals := make([]string, len(hashes))
		for i, v := range hashes {
			vals[i] = strconv.FormatUint(v, 10)
		}
		fmt.Fprintln(w, strings.Join(vals, " "))
	}
	opts.OnLoad = func(f *bloom.Filter) {
		bits, err := f.Dump(PrintBloomBits)
		if err != nil {
			panic(err) // PrintBloomBits is a multiple of 8
		}
		fmt.Fprintf(w, "% 02x\n", bits)
	}
	m, err := match.New(opts)
	if err != nil {
		return nil, err
	}

	query, err := config.ReadDocument(queryPath)
	if err != nil {
		return nil, err
	}
	rep := &config.Report{
		Mode:      mode.String(),
		ChunkSize: cfg.Size(),
		Modulus:   cfg.Modulus(),
		Distinct:  cfg.Distinct,
		Query:     config.NewDocument(queryPath, query),
	}
	for _, path := range refPaths {
		ref, err := config.ReadDocument(path)
		if err != nil {
			return nil, err
		}
		res, err := m.Match(mode, query, ref)
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", path, err)
		}
		fmt.Fprintln(w, res)
		rep.References = append(rep.References, config.Reference{
			Document: config.NewDocument(path, ref),
			Matched:  res.Matched,
			Total:    res.Total,
			Ratio:    res.Ratio(),
		})
	}
	return rep, nil
}
