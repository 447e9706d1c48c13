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

// Package config defines the configuration settings shared by the
// subcommands of the rkmatch command-line tool.
package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/creachadair/atomicfile"
	"github.com/creachadair/rkmatch/match"
	"github.com/creachadair/rkmatch/normalize"
	"github.com/creachadair/rkmatch/rkhash"
	"golang.org/x/crypto/blake2b"
	yaml "gopkg.in/yaml.v3"
)

// Settings represents the stored configuration settings for the rkmatch tool.
// Zero values select the library defaults.
type Settings struct {
	// The chunk size in bytes. If nil, uses match.DefaultChunkSize. A size
	// of zero or less cuts every query into zero chunks.
	ChunkSize *int `yaml:"chunk-size,omitempty"`

	// The match mode selector, as accepted by match.ParseMode.
	Mode string `yaml:"mode,omitempty"`

	// Rolling hash settings.
	Hash rkhash.Config `yaml:"hash,omitempty"`

	// Bloom filter bits per query chunk.
	BitsPerChunk int `yaml:"bits-per-chunk,omitempty"`

	// Bloom filter probes per element.
	Probes int `yaml:"probes,omitempty"`

	// Count each query chunk at most once in batched mode.
	Distinct bool `yaml:"distinct,omitempty"`
}

// Load reads and parses the contents of a config file from path.  If the
// specified path does not exist, an empty config is returned without error.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return new(Settings), nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := new(Settings)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// MatchMode parses the mode selector of s. An empty selector means brute
// force.
func (s *Settings) MatchMode() (match.Mode, error) {
	if s.Mode == "" {
		return match.BruteForce, nil
	}
	return match.ParseMode(s.Mode)
}

// MatchOptions returns match options reflecting s.
func (s *Settings) MatchOptions() *match.Options {
	k := s.Size()
	if k <= 0 {
		k = match.NoChunks
	}
	opts := &match.Options{
		ChunkSize:    k,
		Hash:         &s.Hash,
		BitsPerChunk: s.BitsPerChunk,
		Probes:       s.Probes,
	}
	if s.Distinct {
		opts.Count = match.CountChunks
	}
	return opts
}

// Size returns the configured chunk size, or match.DefaultChunkSize if none
// is set.
func (s *Settings) Size() int {
	if s.ChunkSize == nil {
		return match.DefaultChunkSize
	}
	return *s.ChunkSize
}

// Modulus returns the effective hash modulus of s.
func (s *Settings) Modulus() uint64 {
	if s.Hash.Modulus == 0 {
		return rkhash.DefaultModulus
	}
	return s.Hash.Modulus
}

// ReadDocument reads the contents of the file at path and returns its
// normalized text.
func ReadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return normalize.Text(data), nil
}

// A Document describes one input document in a report.
type Document struct {
	Path   string `yaml:"path"`
	Length int    `yaml:"length"` // normalized length in bytes
	Digest string `yaml:"blake2b"`
}

// NewDocument returns a Document describing the normalized text from path.
func NewDocument(path string, text []byte) Document {
	sum := blake2b.Sum256(text)
	return Document{Path: path, Length: len(text), Digest: hex.EncodeToString(sum[:])}
}

// A Reference records the result of matching against one reference document.
type Reference struct {
	Document `yaml:",inline"`

	Matched int     `yaml:"matched"`
	Total   int     `yaml:"total"`
	Ratio   float64 `yaml:"ratio"`
}

// A Report summarizes a run of the match command.
type Report struct {
	Mode       string      `yaml:"mode"`
	ChunkSize  int         `yaml:"chunk-size"`
	Modulus    uint64      `yaml:"modulus"`
	Distinct   bool        `yaml:"distinct,omitempty"`
	Query      Document    `yaml:"query"`
	References []Reference `yaml:"references"`
}

// WriteReport writes r as YAML to the file at path. The file is replaced
// atomically.
func WriteReport(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := atomicfile.WriteData(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
