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

package rkhash

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/bits"
)

// DefaultModulus is the prime modulus used when none is configured.
// DefaultModulus * DefaultRadix does not overflow an int64.
const DefaultModulus = 5003943032159437

// DefaultRadix is the base of the polynomial hash, one digit per byte value.
const DefaultRadix = 256

var (
	// ErrInvalidModulus is reported for a modulus that is not a prime, or
	// that is so large that multiplying a residue by the radix would overflow.
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrInvalidRadix is reported for a radix less than 2.
	ErrInvalidRadix = errors.New("invalid radix")
)

// A Modulus performs arithmetic on residues modulo a fixed prime P.
//
// All methods require their arguments to already lie in [0, P). The results
// are unspecified if they do not; the methods do not check.
type Modulus uint64

// NewModulus returns p as a Modulus for hashing with the given radix. It
// reports ErrInvalidModulus if p is not prime, if p does not exceed every
// byte value, or if p*radix does not fit in an int64.
func NewModulus(p, radix uint64) (Modulus, error) {
	if radix < 2 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRadix, radix)
	}
	if p <= math.MaxUint8 || p > math.MaxInt64/radix {
		return 0, fmt.Errorf("%w: %d out of range for radix %d", ErrInvalidModulus, p, radix)
	}
	if !new(big.Int).SetUint64(p).ProbablyPrime(0) {
		return 0, fmt.Errorf("%w: %d is not prime", ErrInvalidModulus, p)
	}
	return Modulus(p), nil
}

// Add returns (a + b) mod m.
func (m Modulus) Add(a, b uint64) uint64 {
	s := a + b
	if s >= uint64(m) {
		return s - uint64(m)
	}
	return s
}

// Sub returns (a - b) mod m.
func (m Modulus) Sub(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + uint64(m) - b
}

// Mul returns (a * b) mod m. The product is formed at full width, so Mul is
// exact for any pair of residues.
func (m Modulus) Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, uint64(m))
}

// Exp returns b**e mod m.
func (m Modulus) Exp(b uint64, e int) uint64 {
	s := uint64(1) % uint64(m)
	b %= uint64(m)
	for e > 0 {
		if e&1 == 1 {
			s = m.Mul(s, b)
		}
		b = m.Mul(b, b)
		e >>= 1
	}
	return s
}
