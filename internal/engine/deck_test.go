package engine

import (
	"math/rand/v2"
	"testing"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	deck := NewDeck()
	if len(deck) != 52 {
		t.Fatalf("want 52 cards, got %d", len(deck))
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
}

func TestShuffleDeckKeepsAllCards(t *testing.T) {
	deck := NewDeck()
	ShuffleDeck(deck, rand.New(rand.NewPCG(7, 7)))
	seen := map[Card]bool{}
	for _, c := range deck {
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("shuffle lost cards: %d unique", len(seen))
	}
}

func TestCyclicAdjacent(t *testing.T) {
	cases := []struct {
		name string
		a, b Rank
		want bool
	}{
		{"ace next to two", 1, 2, true},
		{"ace next to king", 1, 13, true},
		{"king next to ace", 13, 1, true},
		{"five next to four", 5, 4, true},
		{"five next to six", 5, 6, true},
		{"five not next to seven", 5, 7, false},
		{"same rank not adjacent", 8, 8, false},
		{"two not next to king", 2, 13, false},
		{"queen next to king", 12, 13, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CyclicAdjacent(tc.a, tc.b); got != tc.want {
				t.Fatalf("CyclicAdjacent(%d, %d) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	for _, c := range NewDeck() {
		parsed, ok := ParseCard(c.String())
		if !ok || parsed != c {
			t.Fatalf("round trip failed for %s: got %v ok=%v", c, parsed, ok)
		}
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "H", "A", "1H", "11H", "14S", "XH", "AX", "10"} {
		if _, ok := ParseCard(s); ok {
			t.Fatalf("ParseCard(%q) unexpectedly succeeded", s)
		}
	}
}

func TestSlotOther(t *testing.T) {
	if SlotA.Other() != SlotB || SlotB.Other() != SlotA {
		t.Fatal("slot Other is not an involution")
	}
}
