package order

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApply(t *testing.T) {
	master := []string{"1", "2", "3", "4"}
	tests := []struct {
		name  string
		order []string
		want  []string
	}{
		{"nil order", nil, []string{"1", "2", "3", "4"}},
		{"full order", []string{"4", "3", "2", "1"}, []string{"4", "3", "2", "1"}},
		{"partial order", []string{"3", "1"}, []string{"3", "1", "2", "4"}},
		{"stale ids dropped", []string{"9", "2", "x"}, []string{"2", "1", "3", "4"}},
		{"duplicates collapse", []string{"2", "2", "4", "2"}, []string{"2", "4", "1", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(master, tt.order)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyAlwaysPermutesMaster(t *testing.T) {
	master := []int{5, 1, 4, 2, 3}
	orders := [][]int{
		nil,
		{3, 3, 3},
		{7, 8, 9},
		{1, 2, 3, 4, 5, 6, 1},
		{2, 5},
	}
	want := slices.Clone(master)
	slices.Sort(want)
	for _, o := range orders {
		got := Apply(master, o)
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		if !slices.Equal(sorted, want) {
			t.Fatalf("Apply(%v) = %v, not a permutation of %v", o, got, master)
		}
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		order    []int
		from, to int
		want     []int
	}{
		{"last to first", []int{1, 2, 3, 4}, 4, 1, []int{4, 1, 2, 3}},
		{"first to last", []int{1, 2, 3, 4}, 1, 4, []int{2, 3, 4, 1}},
		{"adjacent", []int{1, 2, 3, 4}, 2, 3, []int{1, 3, 2, 4}},
		{"same id", []int{1, 2, 3}, 2, 2, []int{1, 2, 3}},
		{"missing from", []int{1, 2, 3}, 9, 1, []int{1, 2, 3}},
		{"missing to", []int{1, 2, 3}, 1, 9, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := slices.Clone(tt.order)
			got := Move(in, tt.from, tt.to)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Move(%v, %d, %d) = %v, want %v", tt.order, tt.from, tt.to, got, tt.want)
			}
			if !slices.Equal(in, tt.order) {
				t.Fatalf("Move() modified its input: %v", in)
			}
		})
	}
}
