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

// Package rkhash implements the Rabin-Karp polynomial rolling hash over
// fixed-size windows of byte data.
//
// The hash of a k-byte string s is
//
//	H(s) = Σ s[i] * radix^(k-1-i)  (mod P)
//
// for a prime modulus P. Sliding the window one byte to the right takes
// constant time given the precomputed leading coefficient radix^(k-1):
//
//	H' = ((H - out*radix^(k-1)) * radix + in)  (mod P)
//
// A hash match is necessary but not sufficient for two windows to be equal.
// Callers must compare the bytes before treating a hash hit as a match.
package rkhash

import (
	"errors"
	"fmt"
	"iter"
)

// ErrWindowSize is reported for a window size less than 1.
var ErrWindowSize = errors.New("invalid window size")

// Config carries the parameters of a rolling hash. A nil *Config is ready for
// use and provides default values as described on the fields.
type Config struct {
	// The prime modulus for hash arithmetic. If zero, uses DefaultModulus.
	Modulus uint64 `yaml:"modulus,omitempty"`

	// The radix of the polynomial hash. If zero, uses DefaultRadix.
	Radix uint64 `yaml:"radix,omitempty"`
}

func (c *Config) modulus() uint64 {
	if c == nil || c.Modulus == 0 {
		return DefaultModulus
	}
	return c.Modulus
}

func (c *Config) radix() uint64 {
	if c == nil || c.Radix == 0 {
		return DefaultRadix
	}
	return c.Radix
}

// Check reports whether c describes a usable hash configuration.
func (c *Config) Check() error {
	_, err := NewModulus(c.modulus(), c.radix())
	return err
}

// A Hasher computes Rabin-Karp hashes of windows of a fixed size. A Hasher
// holds no mutable state and may be shared.
type Hasher struct {
	mod   Modulus
	radix uint64
	size  int    // window size in bytes
	lead  uint64 // radix^(size-1) mod P
}

// New constructs a Hasher for windows of the given size, using the settings
// from c. A nil *Config uses the default settings.
func New(windowSize int, c *Config) (*Hasher, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrWindowSize, windowSize)
	}
	mod, err := NewModulus(c.modulus(), c.radix())
	if err != nil {
		return nil, err
	}
	h := &Hasher{mod: mod, radix: c.radix(), size: windowSize}
	h.lead = mod.Exp(h.radix, windowSize-1)
	return h, nil
}

// Size returns the window size of h in bytes.
func (h *Hasher) Size() int { return h.size }

// Modulus returns the modulus used by h.
func (h *Hasher) Modulus() Modulus { return h.mod }

// Leading returns radix^(size-1) mod P, the weight of the oldest byte in a
// window.
func (h *Hasher) Leading() uint64 { return h.lead }

// Sum returns the hash of s, computed directly in O(len(s)) time.
// It panics if len(s) != h.Size().
func (h *Hasher) Sum(s []byte) uint64 {
	if len(s) != h.size {
		panic(fmt.Sprintf("rkhash: window has %d bytes, want %d", len(s), h.size))
	}
	var v uint64
	for _, b := range s {
		v = h.mod.Add(h.mod.Mul(v, h.radix), uint64(b))
	}
	return v
}

// Roll returns the hash of the window obtained by removing out from the front
// of a window with hash v and appending in at the back.
func (h *Hasher) Roll(v uint64, out, in byte) uint64 {
	v = h.mod.Sub(v, h.mod.Mul(uint64(out), h.lead))
	v = h.mod.Mul(v, h.radix)
	return h.mod.Add(v, uint64(in))
}

// Windows returns an iterator over the offset and hash of each window of
// text, in order. The first window is hashed directly and each subsequent one
// by rolling. If len(text) < h.Size() the sequence is empty.
func (h *Hasher) Windows(text []byte) iter.Seq2[int, uint64] {
	return func(yield func(int, uint64) bool) {
		if len(text) < h.size {
			return
		}
		v := h.Sum(text[:h.size])
		for i := 0; ; i++ {
			if !yield(i, v) || i+h.size >= len(text) {
				return
			}
			v = h.Roll(v, text[i], text[i+h.size])
		}
	}
}
