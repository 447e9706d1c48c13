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

package bloom

import "math/bits"

// A bitVector is a packed array of bits. Bit p is stored in byte p/8 under
// the mask 0x80>>(p%8).
type bitVector []byte

func newBitVector(size int) bitVector { return make(bitVector, (size+7)/8) }

func (b bitVector) IsSet(pos uint64) bool { return b[pos>>3]&(0x80>>(pos&7)) != 0 }
func (b bitVector) Set(pos uint64)        { b[pos>>3] |= 0x80 >> (pos & 7) }

// Count returns the number of bits set in b.
func (b bitVector) Count() int {
	var n int
	for _, v := range b {
		n += bits.OnesCount8(v)
	}
	return n
}
