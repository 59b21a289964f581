package main

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
)

// makeEntries builds n entries with distinct URL pairs, shared by the
// ordering, pagination and selection tests.
func makeEntries(n int) []ManifestEntry {
	entries := make([]ManifestEntry, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("img%03d.jpg", i)
		entries[i] = ManifestEntry{
			Filename:  name,
			Index:     i,
			Thumbnail: Variant{Width: 320, Height: 200, Filename: fmt.Sprintf("img%03d_320.webp", i)},
			Original:  Variant{Width: 2000, Height: 1250, Filename: name},
			Ref: ImageRef{
				ThumbnailURL: fmt.Sprintf("thumbs/img%03d_320.webp", i),
				FullURL:      fmt.Sprintf("full/img%03d.jpg", i),
			},
		}
	}
	return entries
}

func TestShuffleStrategyPermutation(t *testing.T) {
	entries := makeEntries(50)
	s := NewShuffleStrategyWithSource(rand.NewSource(42))

	result := s.Order(entries)

	if len(result) != len(entries) {
		t.Fatalf("len = %d, want %d", len(result), len(entries))
	}

	// Every element survives exactly once
	seen := make(map[ImageRef]int)
	for _, e := range result {
		seen[e.Ref]++
	}
	for _, e := range entries {
		if seen[e.Ref] != 1 {
			t.Errorf("entry %s appears %d times", e.Filename, seen[e.Ref])
		}
	}

	// Original slice untouched
	for i, e := range entries {
		if e.Index != i {
			t.Errorf("input slice was mutated at %d", i)
		}
	}
}

// Each element must land in each position with near-uniform frequency;
// a biased shuffle (e.g. always leaving the first element in place)
// fails this even though every run is a valid permutation.
func TestShuffleStrategyUniformDistribution(t *testing.T) {
	const trials = 5000
	entries := makeEntries(5)
	s := NewShuffleStrategyWithSource(rand.NewSource(7))

	counts := make([][]int, len(entries))
	for i := range counts {
		counts[i] = make([]int, len(entries))
	}

	for trial := 0; trial < trials; trial++ {
		for pos, e := range s.Order(entries) {
			counts[e.Index][pos]++
		}
	}

	// Expected 1000 per cell; 15% tolerance is over 5 standard
	// deviations, so a fair shuffle passes with huge margin
	expected := float64(trials) / float64(len(entries))
	tolerance := expected * 0.15
	for i := range counts {
		for pos, c := range counts[i] {
			if math.Abs(float64(c)-expected) > tolerance {
				t.Errorf("entry %d at position %d: %d occurrences, want %.0f±%.0f", i, pos, c, expected, tolerance)
			}
		}
	}
}

func TestShuffleStrategyVariesAcrossSeeds(t *testing.T) {
	entries := makeEntries(30)

	a := NewShuffleStrategyWithSource(rand.NewSource(1)).Order(entries)
	b := NewShuffleStrategyWithSource(rand.NewSource(2)).Order(entries)

	same := true
	for i := range a {
		if a[i].Ref != b[i].Ref {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical permutations")
	}
}

func TestNaturalOrderStrategy(t *testing.T) {
	entries := []ManifestEntry{
		{Filename: "img10.jpg"},
		{Filename: "img2.jpg"},
		{Filename: "img1.jpg"},
	}

	result := (&NaturalOrderStrategy{}).Order(entries)

	want := []string{"img1.jpg", "img2.jpg", "img10.jpg"}
	for i, w := range want {
		if result[i].Filename != w {
			t.Errorf("result[%d] = %s, want %s", i, result[i].Filename, w)
		}
	}
}

func TestEntryOrderStrategy(t *testing.T) {
	entries := makeEntries(5)
	result := (&EntryOrderStrategy{}).Order(entries)

	for i := range entries {
		if result[i].Ref != entries[i].Ref {
			t.Errorf("order changed at %d", i)
		}
	}
}

func TestGetOrderStrategy(t *testing.T) {
	tests := []struct {
		method int
		want   int
	}{
		{OrderShuffle, OrderShuffle},
		{OrderNatural, OrderNatural},
		{OrderEntry, OrderEntry},
		{99, OrderShuffle}, // unknown falls back to shuffle
		{-1, OrderShuffle},
	}

	for _, tt := range tests {
		if got := GetOrderStrategy(tt.method).ID(); got != tt.want {
			t.Errorf("GetOrderStrategy(%d).ID() = %d, want %d", tt.method, got, tt.want)
		}
	}
}

func TestOrderStrategyEmptyInput(t *testing.T) {
	for _, s := range GetAllOrderStrategies() {
		if got := s.Order(nil); len(got) != 0 {
			t.Errorf("%s: Order(nil) returned %d entries", s.Name(), len(got))
		}
	}
}
