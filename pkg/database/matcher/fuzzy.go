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

// Package matcher ranks catalog slugs against a search query when no
// slug contains the query outright.
package matcher

import (
	"cmp"
	"slices"
	"strings"

	"github.com/LevelImposter/lim-core/pkg/database/slugs"
	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxLengthDiff skips candidates whose length differs from the
	// query by more than this many bytes.
	DefaultMaxLengthDiff = 2
	DefaultMinSimilarity = 0.85
	// DefaultTieBreakTopN is how many leading matches are re-ranked by edit
	// distance.
	DefaultTieBreakTopN = 5
)

// FuzzyMatch is a candidate slug and its Jaro-Winkler similarity to the
// query.
type FuzzyMatch struct {
	Slug       string
	Similarity float32
}

// FindFuzzyMatches returns candidates within maxDistance bytes of the
// query's length whose Jaro-Winkler similarity is at least minSimilarity,
// best first. Exact matches are skipped.
func FindFuzzyMatches(query string, candidates []string, maxDistance int, minSimilarity float32) []FuzzyMatch {
	var matches []FuzzyMatch
	for _, candidate := range candidates {
		if candidate == query {
			continue
		}
		if diff := len(query) - len(candidate); diff > maxDistance || -diff > maxDistance {
			continue
		}

		similarity := edlib.JaroWinklerSimilarity(query, candidate)
		if similarity < minSimilarity {
			continue
		}
		log.Debug().
			Str("query", query).
			Str("candidate", candidate).
			Float32("similarity", similarity).
			Msg("fuzzy match")
		matches = append(matches, FuzzyMatch{Slug: candidate, Similarity: similarity})
	}

	slices.SortStableFunc(matches, func(a, b FuzzyMatch) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	return matches
}

// ApplyDamerauLevenshteinTieBreaker re-ranks the first topN matches by
// Damerau-Levenshtein distance to the query, which catches transposed
// letters ("sekld"). Anything past topN is dropped; topN <= 0 keeps all.
func ApplyDamerauLevenshteinTieBreaker(query string, matches []FuzzyMatch, topN int) []FuzzyMatch {
	if len(matches) < 2 {
		return matches
	}
	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}

	type scored struct {
		match    FuzzyMatch
		distance int
	}
	ranked := make([]scored, len(matches))
	for i, m := range matches {
		ranked[i] = scored{match: m, distance: edlib.DamerauLevenshteinDistance(query, m.Slug)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(a.distance, b.distance)
	})

	out := make([]FuzzyMatch, len(ranked))
	for i, s := range ranked {
		out[i] = s.match
	}
	return out
}

// TokenSignature is the sorted word list of a name, so "Skeld Remix" and
// "Remix: Skeld" share one signature.
func TokenSignature(name string) string {
	tokens := slugs.Tokens(name)
	slices.Sort(tokens)
	return strings.Join(tokens, "_")
}

// Rank orders candidate slugs for query: fuzzy matches first, then
// re-ranked by edit distance. Candidates are already-slugified names.
func Rank(query string, candidates []string) []string {
	matches := FindFuzzyMatches(query, candidates, DefaultMaxLengthDiff, DefaultMinSimilarity)
	matches = ApplyDamerauLevenshteinTieBreaker(query, matches, DefaultTieBreakTopN)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Slug
	}
	return out
}
