package engine

import (
	"fmt"
	"math/rand/v2"
)

// SlotID identifies one of the two fixed player positions in a session.
type SlotID int

const (
	SlotA SlotID = 0
	SlotB SlotID = 1
)

func (s SlotID) Other() SlotID {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

func (s SlotID) String() string {
	if s == SlotA {
		return "A"
	}
	return "B"
}

// Rank runs 1 (ace) through 13 (king).
type Rank int

type Suit byte

const (
	SuitHearts   Suit = 'H'
	SuitDiamonds Suit = 'D'
	SuitClubs    Suit = 'C'
	SuitSpades   Suit = 'S'
)

var suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

type Card struct {
	Rank Rank
	Suit Suit
}

var rankNames = map[Rank]string{
	1: "A", 11: "J", 12: "Q", 13: "K",
}

// String renders the wire form, e.g. "AH", "10S", "QD".
func (c Card) String() string {
	if name, ok := rankNames[c.Rank]; ok {
		return name + string(c.Suit)
	}
	return fmt.Sprintf("%d%c", c.Rank, c.Suit)
}

// ParseCard is the inverse of Card.String.
func ParseCard(s string) (Card, bool) {
	if len(s) < 2 {
		return Card{}, false
	}
	suit := Suit(s[len(s)-1])
	switch suit {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
	default:
		return Card{}, false
	}

	var rank Rank
	switch name := s[:len(s)-1]; name {
	case "A":
		rank = 1
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	default:
		n := 0
		for _, ch := range name {
			if ch < '0' || ch > '9' {
				return Card{}, false
			}
			n = n*10 + int(ch-'0')
		}
		rank = Rank(n)
		if rank < 2 || rank > 10 {
			return Card{}, false
		}
	}
	return Card{Rank: rank, Suit: suit}, true
}

// CyclicAdjacent reports whether two ranks are exactly one step apart on the
// 13-rank cycle. Ace neighbors both 2 and king; no other distance counts.
func CyclicAdjacent(a, b Rank) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d == 1 || d == 12
}

// NewDeck returns the full 52-card set in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for r := Rank(1); r <= 13; r++ {
		for _, s := range suits {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck permutes d in place using the supplied source.
func ShuffleDeck(d []Card, rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// CardStrings maps a pile to its wire form, preserving order.
func CardStrings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
