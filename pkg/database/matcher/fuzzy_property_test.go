// LIM Core
// Copyright (c) 2026 The LevelImposter Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LIM Core.
//
// LIM Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LIM Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LIM Core.  If not, see <http://www.gnu.org/licenses/>.

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func slugGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z0-9]{0,12}`)
}

func TestPropertyFindFuzzyMatchesInvariants(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		query := slugGen().Draw(rt, "query")
		candidates := rapid.SliceOfN(slugGen(), 0, 20).Draw(rt, "candidates")
		maxDistance := rapid.IntRange(0, 6).Draw(rt, "maxDistance")
		minSimilarity := rapid.Float32Range(0, 1).Draw(rt, "minSimilarity")

		matches := FindFuzzyMatches(query, candidates, maxDistance, minSimilarity)

		for i, m := range matches {
			assert.NotEqual(rt, query, m.Slug, "exact matches are skipped")
			assert.GreaterOrEqual(rt, m.Similarity, minSimilarity)
			assert.LessOrEqual(rt, m.Similarity, float32(1))
			diff := len(query) - len(m.Slug)
			assert.LessOrEqual(rt, max(diff, -diff), maxDistance)
			if i > 0 {
				assert.GreaterOrEqual(rt, matches[i-1].Similarity, m.Similarity, "best first")
			}
		}
		assert.Equal(rt, matches, FindFuzzyMatches(query, candidates, maxDistance, minSimilarity))
	})
}

func TestPropertyTieBreakerPreservesSlugs(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		query := slugGen().Draw(rt, "query")
		slugs := rapid.SliceOfNDistinct(slugGen(), 0, 10, rapid.ID[string]).Draw(rt, "slugs")
		topN := rapid.IntRange(0, 12).Draw(rt, "topN")

		matches := make([]FuzzyMatch, len(slugs))
		for i, s := range slugs {
			matches[i] = FuzzyMatch{Slug: s, Similarity: 1 - float32(i)/100}
		}
		got := ApplyDamerauLevenshteinTieBreaker(query, matches, topN)

		want := len(matches)
		if topN > 0 && want > topN && want >= 2 {
			want = topN
		}
		assert.Len(rt, got, want)
		kept := slugsOf(matches[:want])
		assert.ElementsMatch(rt, kept, slugsOf(got))
	})
}

func TestPropertyTokenSignatureOrderIndependent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 5).Draw(rt, "words")
		perm := rapid.Permutation(words).Draw(rt, "perm")

		join := func(ws []string) string {
			s := ""
			for _, w := range ws {
				s += w + " "
			}
			return s
		}
		assert.Equal(rt, TokenSignature(join(words)), TokenSignature(join(perm)))
	})
}
