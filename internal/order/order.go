// Package order maintains user-sortable id sequences that must stay a
// permutation of a known master list.
package order

import "slices"

// Apply arranges master following order where it can. Ids in order that are
// not in master, or repeat an earlier id, are skipped; master ids that order
// does not mention follow in master order. The result is always a
// permutation of master.
func Apply[T comparable](master, order []T) []T {
	pool := make(map[T]int, len(master))
	for _, id := range master {
		pool[id]++
	}
	out := make([]T, 0, len(master))
	for _, id := range order {
		if pool[id] == 0 {
			continue
		}
		pool[id]--
		out = append(out, id)
	}
	for _, id := range master {
		if pool[id] == 0 {
			continue
		}
		pool[id]--
		out = append(out, id)
	}
	return out
}

// Move takes from out of the sequence and reinserts it at to's index; the
// elements in between shift by one. It is a no-op when from == to or either
// id is absent.
func Move[T comparable](order []T, from, to T) []T {
	out := slices.Clone(order)
	if from == to {
		return out
	}
	fi := slices.Index(out, from)
	ti := slices.Index(out, to)
	if fi < 0 || ti < 0 {
		return out
	}
	out = slices.Delete(out, fi, fi+1)
	return slices.Insert(out, ti, from)
}
