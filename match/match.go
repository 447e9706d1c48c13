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

// Package match reports how many fixed-size chunks of a query document occur
// as substrings of a reference document.
//
// The query is cut into len(query)/k non-overlapping chunks of k bytes each;
// a trailing remainder shorter than k is ignored. Each chunk is then looked
// for anywhere in the reference, using one of three strategies:
//
//   - BruteForce compares each chunk against every k-byte window of the
//     reference.
//   - SingleHash scans the reference once per chunk with a Rabin-Karp rolling
//     hash, confirming hash hits byte by byte.
//   - BatchBloom loads the hashes of all the chunks into a Bloom filter, then
//     scans the reference once, confirming each filter hit against every
//     chunk.
package match

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/creachadair/mds/mapset"
	"github.com/creachadair/rkmatch/bloom"
	"github.com/creachadair/rkmatch/rkhash"
)

// DefaultChunkSize is the chunk size used if none is set in the options.
const DefaultChunkSize = 100

// NoChunks is a chunk size that cuts every query into zero chunks.
const NoChunks = -1

// TraceHashes is the number of window hashes reported per chunk to the OnScan
// callback during a SingleHash match.
const TraceHashes = 5

// ErrInvalidMode is reported for an unknown match mode.
var ErrInvalidMode = errors.New("invalid match mode")

// A Mode selects a matching strategy.
type Mode int

// The available matching strategies.
const (
	BruteForce Mode = iota
	SingleHash
	BatchBloom
)

var modeNames = [...][]string{
	BruteForce: {"brute-force", "brute"},
	SingleHash: {"single-hash", "rk"},
	BatchBloom: {"batched-bloom", "batch"},
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m][0]
}

// ParseMode parses a mode selector. It accepts the decimal value of a Mode as
// well as its long or short name, for example "2", "batched-bloom", "batch".
func ParseMode(s string) (Mode, error) {
	if v, err := strconv.Atoi(s); err == nil {
		if v >= 0 && v < len(modeNames) {
			return Mode(v), nil
		}
	} else {
		for m, names := range modeNames {
			for _, name := range names {
				if s == name {
					return Mode(m), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Counting selects how a BatchBloom match counts its result.
type Counting int

const (
	// CountOccurrences counts one match for each pair of a reference window
	// and a query chunk with identical bytes. A chunk that occurs several
	// times in the reference is counted once per occurrence.
	CountOccurrences Counting = iota

	// CountChunks counts each query chunk at most once, if it occurs anywhere
	// in the reference. This agrees with BruteForce and SingleHash.
	CountChunks
)

// Options provide optional settings for a Matcher. A nil *Options is ready for
// use and provides default values as described.
type Options struct {
	// The chunk size in bytes. If zero, uses DefaultChunkSize. A negative
	// size yields zero chunks for any query, and every match is 0 out of 0.
	ChunkSize int

	// Rolling hash settings. If nil, uses the rkhash defaults.
	Hash *rkhash.Config

	// Bloom filter bits allocated per query chunk. If zero, uses
	// bloom.DefaultBitsPerElement.
	BitsPerChunk int

	// Bloom filter probes per element. If zero, uses bloom.DefaultProbes.
	Probes int

	// How BatchBloom counts matches. The default is CountOccurrences.
	Count Counting

	// If set, OnScan is called by SingleHash after scanning for each chunk,
	// with the index of the chunk and the first TraceHashes (or fewer) window
	// hashes computed during the scan.
	OnScan func(chunk int, hashes []uint64)

	// If set, OnLoad is called by BatchBloom with the filter after the hashes
	// of all chunks have been added, before the scan. The callback must not
	// modify the filter.
	OnLoad func(*bloom.Filter)
}

func (o *Options) chunkSize() int {
	if o == nil || o.ChunkSize == 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

// A Matcher matches the chunks of a query document against a reference
// document. A Matcher is not safe for concurrent use if its callbacks are not.
type Matcher struct {
	opts Options
	hash *rkhash.Hasher
}

// New constructs a Matcher with the given options. It reports an error if the
// hash settings are invalid.
func New(opts *Options) (*Matcher, error) {
	var m Matcher
	if opts != nil {
		m.opts = *opts
	}
	m.opts.ChunkSize = opts.chunkSize()
	if err := m.opts.Hash.Check(); err != nil {
		return nil, err
	}
	if k := m.opts.ChunkSize; k > 0 {
		h, err := rkhash.New(k, m.opts.Hash)
		if err != nil {
			return nil, err
		}
		m.hash = h
	}
	return &m, nil
}

// ChunkSize returns the chunk size of m in bytes. It is negative if m cuts
// queries into zero chunks.
func (m *Matcher) ChunkSize() int { return m.opts.ChunkSize }

// Match matches query against ref using the given strategy.
func (m *Matcher) Match(mode Mode, query, ref []byte) (Result, error) {
	switch mode {
	case BruteForce:
		return m.BruteForce(query, ref), nil
	case SingleHash:
		return m.SingleHash(query, ref), nil
	case BatchBloom:
		return m.BatchBloom(query, ref)
	default:
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}
}

// BruteForce reports how many chunks of query occur in ref, by comparing each
// chunk to each window of ref directly.
func (m *Matcher) BruteForce(query, ref []byte) Result {
	chunks := Chunks(query, m.opts.ChunkSize)
	res := Result{Total: len(chunks)}
	for _, c := range chunks {
		if contains(ref, c) {
			res.Matched++
		}
	}
	return res
}

// contains reports whether c occurs anywhere in text.
func contains(text, c []byte) bool {
	for i := 0; i+len(c) <= len(text); i++ {
		if bytes.Equal(text[i:i+len(c)], c) {
			return true
		}
	}
	return false
}

// SingleHash reports how many chunks of query occur in ref, by scanning ref
// with a rolling hash once for each chunk. The scan for a chunk stops at the
// first confirmed match.
func (m *Matcher) SingleHash(query, ref []byte) Result {
	chunks := Chunks(query, m.opts.ChunkSize)
	res := Result{Total: len(chunks)}
	for j, c := range chunks {
		want := m.hash.Sum(c)

		var trace [TraceHashes]uint64
		var nt int
		for i, v := range m.hash.Windows(ref) {
			if nt < len(trace) {
				trace[nt] = v
				nt++
			}
			if v == want && bytes.Equal(ref[i:i+len(c)], c) {
				res.Matched++
				break
			}
		}
		if m.opts.OnScan != nil {
			m.opts.OnScan(j, trace[:nt])
		}
	}
	return res
}

// BatchBloom reports how many chunks of query occur in ref, by adding the
// hashes of all chunks to a Bloom filter and scanning ref once. The result is
// counted as selected by the Count option.
//
// OnLoad is called even if query has no chunks, with an empty filter of the
// minimum size.
func (m *Matcher) BatchBloom(query, ref []byte) (Result, error) {
	chunks := Chunks(query, m.opts.ChunkSize)
	res := Result{Total: len(chunks)}

	f, err := bloom.New(bloom.SizeFor(len(chunks), m.opts.BitsPerChunk), &bloom.Options{
		Probes: m.opts.Probes,
	})
	if err != nil {
		return Result{}, err
	}
	for _, c := range chunks {
		f.Add(m.hash.Sum(c))
	}
	if m.opts.OnLoad != nil {
		m.opts.OnLoad(f)
	}
	if len(chunks) == 0 {
		return res, nil
	}

	// A filter hit does not say which chunk produced it, so every chunk must
	// be checked against the window.
	var found mapset.Set[int]
	for i, v := range m.hash.Windows(ref) {
		if !f.Has(v) {
			continue
		}
		win := ref[i : i+m.opts.ChunkSize]
		for j, c := range chunks {
			if !bytes.Equal(win, c) {
				continue
			}
			if m.opts.Count == CountChunks {
				found.Add(j)
			} else {
				res.Matched++
			}
		}
	}
	if m.opts.Count == CountChunks {
		res.Matched = found.Len()
	}
	return res, nil
}

// Chunks returns the len(query)/k non-overlapping k-byte chunks of query, in
// order. The chunks alias query. If k < 1, Chunks returns nil.
func Chunks(query []byte, k int) [][]byte {
	if k < 1 {
		return nil
	}
	var out [][]byte
	for i := 0; i+k <= len(query); i += k {
		out = append(out, query[i:i+k:i+k])
	}
	return out
}

// Duplicates returns the number of chunks that are equal to some earlier
// chunk in the slice.
func Duplicates(chunks [][]byte) int {
	var seen mapset.Set[string]
	var n int
	for _, c := range chunks {
		if s := string(c); seen.Has(s) {
			n++
		} else {
			seen.Add(s)
		}
	}
	return n
}

// A Result reports the outcome of a match.
type Result struct {
	Matched int // the number of matches found
	Total   int // the number of query chunks
}

// Ratio returns Matched/Total, or 0 if there are no chunks.
func (r Result) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Matched) / float64(r.Total)
}

// String renders r in the form "0.50 matched: 1 out of 2".
func (r Result) String() string {
	return fmt.Sprintf("%.2f matched: %d out of %d", r.Ratio(), r.Matched, r.Total)
}
