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

package match_test

import (
	"fmt"
	"log"

	"github.com/creachadair/rkmatch/match"
	"github.com/creachadair/rkmatch/normalize"
)

func Example() {
	query := normalize.Text([]byte("The  Quick brown\tfox"))
	ref := normalize.Text([]byte("a quick brown dog and a slow red fox"))

	m, err := match.New(&match.Options{ChunkSize: 5})
	if err != nil {
		log.Fatalf("New: %v", err)
	}
	for _, mode := range []match.Mode{match.BruteForce, match.SingleHash, match.BatchBloom} {
		res, err := m.Match(mode, query, ref)
		if err != nil {
			log.Fatalf("Match: %v", err)
		}
		fmt.Printf("%-13s %v\n", mode, res)
	}

	// Output:
	// brute-force   0.67 matched: 2 out of 3
	// single-hash   0.67 matched: 2 out of 3
	// batched-bloom 0.67 matched: 2 out of 3
}
