package main

import (
	"math/rand"
	"sort"
	"time"

	"github.com/maruel/natural"
)

// Ordering method constants
const (
	OrderShuffle = 0 // Uniform random order (default)
	OrderNatural = 1 // Natural filename order (e.g., img1, img2, img10)
	OrderEntry   = 2 // Maintain manifest order (no reordering)
)

// OrderStrategy defines the interface for collection ordering strategies
type OrderStrategy interface {
	// Order returns a new ordered slice without modifying the original
	Order(entries []ManifestEntry) []ManifestEntry
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// ShuffleStrategy produces a uniform random permutation via the
// Fisher-Yates shuffle.
type ShuffleStrategy struct {
	rng *rand.Rand
}

func NewShuffleStrategy() *ShuffleStrategy {
	return NewShuffleStrategyWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewShuffleStrategyWithSource(src rand.Source) *ShuffleStrategy {
	return &ShuffleStrategy{rng: rand.New(src)}
}

func (s *ShuffleStrategy) Order(entries []ManifestEntry) []ManifestEntry {
	if len(entries) == 0 {
		return []ManifestEntry{}
	}

	// Shuffle a copy; the fetched manifest stays untouched
	result := make([]ManifestEntry, len(entries))
	copy(result, entries)

	for i := len(result) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		result[i], result[j] = result[j], result[i]
	}

	return result
}

func (s *ShuffleStrategy) Name() string {
	return "Shuffled"
}

func (s *ShuffleStrategy) ID() int {
	return OrderShuffle
}

// NaturalOrderStrategy sorts by filename using maruel/natural
type NaturalOrderStrategy struct{}

func (s *NaturalOrderStrategy) Order(entries []ManifestEntry) []ManifestEntry {
	if len(entries) == 0 {
		return []ManifestEntry{}
	}

	result := make([]ManifestEntry, len(entries))
	copy(result, entries)

	sort.Slice(result, func(i, j int) bool {
		return natural.Less(result[i].Filename, result[j].Filename)
	})

	return result
}

func (s *NaturalOrderStrategy) Name() string {
	return "Natural"
}

func (s *NaturalOrderStrategy) ID() int {
	return OrderNatural
}

// EntryOrderStrategy preserves the manifest order
type EntryOrderStrategy struct{}

func (s *EntryOrderStrategy) Order(entries []ManifestEntry) []ManifestEntry {
	if len(entries) == 0 {
		return []ManifestEntry{}
	}

	result := make([]ManifestEntry, len(entries))
	copy(result, entries)

	return result
}

func (s *EntryOrderStrategy) Name() string {
	return "Entry Order"
}

func (s *EntryOrderStrategy) ID() int {
	return OrderEntry
}

// GetOrderStrategy returns the appropriate strategy based on the method ID
func GetOrderStrategy(method int) OrderStrategy {
	switch method {
	case OrderShuffle:
		return NewShuffleStrategy()
	case OrderNatural:
		return &NaturalOrderStrategy{}
	case OrderEntry:
		return &EntryOrderStrategy{}
	default:
		return NewShuffleStrategy() // Default fallback
	}
}

// GetAllOrderStrategies returns all available ordering strategies
func GetAllOrderStrategies() []OrderStrategy {
	return []OrderStrategy{
		NewShuffleStrategy(),
		&NaturalOrderStrategy{},
		&EntryOrderStrategy{},
	}
}
