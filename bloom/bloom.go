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

// Package bloom implements a fixed-size Bloom filter over 64-bit elements.
//
// Each element sets or checks a fixed number of bit positions (probes) in a
// packed bit array. The probe positions for element x are
//
//	pos(i) = ((x mod H1Prime) + i*(x mod H2Prime) + 1 + i*i) mod nbits
//
// for i in [0, probes). This is a simple double-hashing scheme. It is not
// cryptographic, and an adversary who knows the parameters can easily
// construct colliding elements; it is meant for benign inputs such as the
// fingerprints of text chunks.
//
// Bits are only ever set, never cleared. There is no way to remove an element
// from a filter.
package bloom

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// These primes decorrelate the two components of the probe function.
const (
	H1Prime = 4189793
	H2Prime = 3296731
)

// DefaultProbes is the number of probes used if none is set in the options.
const DefaultProbes = 10

// DefaultBitsPerElement is the filter size per element recommended by SizeFor.
const DefaultBitsPerElement = 10

var (
	// ErrFilterSize is reported for a filter with fewer than 1 bit.
	ErrFilterSize = errors.New("invalid filter size")

	// ErrDumpSize is reported by Dump for a bit count that is not a
	// non-negative multiple of 8.
	ErrDumpSize = errors.New("invalid dump size")
)

// A Filter is a Bloom filter over uint64 elements. A Filter reports no false
// negatives: Has(x) is true for every x that was passed to Add. It may report
// false positives for values that were not added.
type Filter struct {
	numKeys int       // number of Add calls
	bits    bitVector // ≥ nbits bits, packed MSB-first
	nbits   uint64    // the number of addressable bits
	probes  int       // probes per element
	hash    func([]byte) uint64
}

// New constructs an empty filter with the specified number of bits. A nil
// opts value is ready for use and provides default values as described on
// Options. New reports ErrFilterSize if nbits < 1.
func New(nbits int, opts *Options) (*Filter, error) {
	if nbits < 1 {
		return nil, fmt.Errorf("%w: %d bits", ErrFilterSize, nbits)
	}
	return &Filter{
		bits:   newBitVector(nbits),
		nbits:  uint64(nbits),
		probes: opts.probes(),
		hash:   opts.hashFunc(),
	}, nil
}

// SizeFor returns the recommended filter size in bits for n elements with the
// given number of bits per element: bitsPer*n rounded down to a multiple of
// 8, but not less than 8. If bitsPer ≤ 0, DefaultBitsPerElement is used.
func SizeFor(n, bitsPer int) int {
	if bitsPer <= 0 {
		bitsPer = DefaultBitsPerElement
	}
	return max(8, (n*bitsPer)&^7)
}

// pos returns the bit position for probe i of elm. Add and Has must agree on
// this function exactly.
func (f *Filter) pos(i, elm uint64) uint64 {
	return ((elm % H1Prime) + i*(elm%H2Prime) + 1 + i*i) % f.nbits
}

// Add adds elm to the filter.
func (f *Filter) Add(elm uint64) {
	for i := range uint64(f.probes) {
		f.bits.Set(f.pos(i, elm))
	}
	f.numKeys++
}

// Has reports whether elm may have been added to the filter. False positives
// are possible for elements that were not added, but no false negatives.
func (f *Filter) Has(elm uint64) bool {
	for i := range uint64(f.probes) {
		if !f.bits.IsSet(f.pos(i, elm)) {
			return false
		}
	}
	return true
}

// AddKey adds the hash of key to the filter.
func (f *Filter) AddKey(key []byte) { f.Add(f.hash(key)) }

// HasKey reports whether key may have been added with AddKey.
func (f *Filter) HasKey(key []byte) bool { return f.Has(f.hash(key)) }

// Dump returns a copy of the first nbits bits of the filter, packed 8 per
// byte with the lowest-numbered bit in the high-order position. The nbits
// value must be a non-negative multiple of 8. It is clamped to the whole
// bytes of the filter's size.
func (f *Filter) Dump(nbits int) ([]byte, error) {
	if nbits < 0 || nbits%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits", ErrDumpSize, nbits)
	}
	out := make([]byte, min(nbits/8, int(f.nbits/8)))
	copy(out, f.bits)
	return out, nil
}

// Stats returns size and capacity statistics for the filter.
func (f *Filter) Stats() Stats {
	return Stats{
		NumKeys:    f.numKeys,
		FilterBits: int(f.nbits),
		NumProbes:  f.probes,
		BitsSet:    f.bits.Count(),
	}
}

// Options provide optional settings for a filter. A nil *Options is ready for
// use and provides default values as described.
type Options struct {
	// The number of probes per element. A value ≤ 0 defaults to DefaultProbes.
	Probes int

	// Compute a 64-bit hash of a key for AddKey and HasKey. If nil, uses
	// xxhash.Sum64.
	Hash func([]byte) uint64
}

func (o *Options) probes() int {
	if o == nil || o.Probes <= 0 {
		return DefaultProbes
	}
	return o.Probes
}

func (o *Options) hashFunc() func([]byte) uint64 {
	if o == nil || o.Hash == nil {
		return xxhash.Sum64
	}
	return o.Hash
}

// Stats record size and capacity statistics for a Filter.
type Stats struct {
	NumKeys    int // the number of elements added to the filter
	FilterBits int // the number of bits in the filter
	NumProbes  int // the number of probes per element
	BitsSet    int // the number of bits currently set
}
