// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package shuffle

import (
	"errors"
	"math/rand/v2"
	"strings"
)

// ErrTooFewParticipants is returned when there are not enough distinct
// names to form a cycle.
var ErrTooFewParticipants = errors.New("at least 2 participants required")

// Pair is one santa→target assignment.
type Pair struct {
	Santa  string
	Target string
}

// Ring produces a randomized single-cycle assignment over the given
// identifiers: each element gives to exactly one other and receives from
// exactly one other, and nobody is assigned to themself.
//
// The construction is a uniform Fisher-Yates permutation followed by
// "everyone gives to the next one around the ring". It deliberately only
// ever produces single-cycle derangements, not arbitrary ones: the group
// always forms one ring. Each of the (n-1)! possible rings is equally
// likely.
func Ring(ids []string) ([]Pair, error) {
	if len(ids) < 2 {
		return nil, ErrTooFewParticipants
	}

	order := make([]string, len(ids))
	copy(order, ids)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	pairs := make([]Pair, len(order))
	for i, santa := range order {
		pairs[i] = Pair{Santa: santa, Target: order[(i+1)%len(order)]}
	}
	return pairs, nil
}

// QuickDraw is the no-persistence variant used by the standalone shuffle
// tool: raw names in, assignments out, nothing stored. Names are trimmed
// and deduplicated case-insensitively (first spelling wins), and the
// result is re-sorted back to input order for display. Re-sorting is
// purely cosmetic - santa/target identity is what matters, not position.
func QuickDraw(names []string) ([]Pair, error) {
	unique := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		unique = append(unique, name)
	}

	pairs, err := Ring(unique)
	if err != nil {
		return nil, err
	}

	inputOrder := make(map[string]int, len(unique))
	for i, name := range unique {
		inputOrder[strings.ToLower(name)] = i
	}
	sorted := make([]Pair, len(pairs))
	for _, p := range pairs {
		sorted[inputOrder[strings.ToLower(p.Santa)]] = p
	}
	return sorted, nil
}
