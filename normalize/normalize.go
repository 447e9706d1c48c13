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

// Package normalize prepares document text for chunk matching.
package normalize

// Text normalizes buf in place and returns the normalized prefix. ASCII
// letters are folded to lower case, each run of whitespace becomes a single
// space, and leading and trailing whitespace is removed. Other bytes are
// passed through unchanged.
func Text(buf []byte) []byte {
	var n int
	pendingSpace := false
	for _, b := range buf {
		if isSpace(b) {
			pendingSpace = n > 0
			continue
		}
		if pendingSpace {
			buf[n] = ' '
			n++
			pendingSpace = false
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		buf[n] = b
		n++
	}
	return buf[:n]
}

// IsNormal reports whether s is unchanged by Text.
func IsNormal(s []byte) bool {
	for i, b := range s {
		switch {
		case 'A' <= b && b <= 'Z':
			return false
		case b == ' ':
			if i == 0 || i == len(s)-1 || s[i-1] == ' ' {
				return false
			}
		case isSpace(b):
			return false
		}
	}
	return true
}

// isSpace reports whether b is an ASCII whitespace byte.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
