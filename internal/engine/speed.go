package engine

import (
	"math/rand/v2"
	"slices"
)

const (
	// HandCapacity is the most cards a player may hold at once.
	HandCapacity = 5
	// SidePileCount is the number of reserve stacks each player refills from.
	SidePileCount = 4
	// CenterPileCount is fixed: one pile seeded from each player's half.
	CenterPileCount = 2

	sidePileSize = 5
)

// SpeedPlayer is one side of the table: a hand bounded by HandCapacity and a
// row of side piles drawn from front-first.
type SpeedPlayer struct {
	Hand      []Card
	SidePiles [SidePileCount][]Card
	Stalemate bool
}

// Remaining counts every card the player still has to shed.
func (p *SpeedPlayer) Remaining() int {
	n := len(p.Hand)
	for _, pile := range p.SidePiles {
		n += len(pile)
	}
	return n
}

func (p *SpeedPlayer) firstNonEmptySidePile() int {
	for i, pile := range p.SidePiles {
		if len(pile) > 0 {
			return i
		}
	}
	return -1
}

// SpeedState is the authoritative table for the card variant. The 52-card set
// is partitioned across both players' hands and side piles plus the two center
// piles at all times; mutation happens only through PlayCard and
// DeclareStalemate.
type SpeedState struct {
	Players     [2]SpeedPlayer
	CenterPiles [CenterPileCount][]Card
	Over        bool
	Winner      SlotID

	rng *rand.Rand
}

// NewSpeedGame deals a fresh shuffled deck: each player gets one card onto
// their center pile, HandCapacity cards in hand, and the rest across their
// side piles.
func NewSpeedGame(rng *rand.Rand) *SpeedState {
	deck := NewDeck()
	ShuffleDeck(deck, rng)

	s := &SpeedState{rng: rng}
	for slot := range s.Players {
		half := deck[slot*26 : (slot+1)*26]
		s.CenterPiles[slot] = []Card{half[0]}
		p := &s.Players[slot]
		p.Hand = slices.Clone(half[1 : 1+HandCapacity])
		rest := half[1+HandCapacity:]
		for i := range p.SidePiles {
			p.SidePiles[i] = slices.Clone(rest[i*sidePileSize : (i+1)*sidePileSize])
		}
	}
	return s
}

// PlayCard attempts to move card from slot's hand onto the given center pile.
// Legal iff the card is in hand and its rank is cyclically adjacent to the
// pile's top. Illegal moves return false and leave the state untouched. After
// a legal move the hand refills from the side piles and the win condition is
// checked.
func (s *SpeedState) PlayCard(slot SlotID, card Card, pile int) bool {
	if s.Over || pile < 0 || pile >= CenterPileCount {
		return false
	}
	p := &s.Players[slot]
	idx := slices.Index(p.Hand, card)
	if idx < 0 {
		return false
	}
	top := s.CenterPiles[pile][len(s.CenterPiles[pile])-1]
	if !CyclicAdjacent(card.Rank, top.Rank) {
		return false
	}

	p.Hand = slices.Delete(p.Hand, idx, idx+1)
	s.CenterPiles[pile] = append(s.CenterPiles[pile], card)
	s.refill(slot)

	if p.Remaining() == 0 {
		s.Over = true
		s.Winner = slot
	}
	return true
}

// refill tops the hand back up from the side piles in pile order, taking each
// pile's front card, until the hand is full or the reserves run dry.
func (s *SpeedState) refill(slot SlotID) {
	p := &s.Players[slot]
	for len(p.Hand) < HandCapacity {
		i := p.firstNonEmptySidePile()
		if i < 0 {
			return
		}
		p.Hand = append(p.Hand, p.SidePiles[i][0])
		p.SidePiles[i] = p.SidePiles[i][1:]
	}
}

// DeclareStalemate records slot's request. The second request (from the other
// player, order-independent) resolves the stalemate immediately and returns
// true; a lone request mutates nothing beyond the flag. A repeated request
// from the same player is ignored.
func (s *SpeedState) DeclareStalemate(slot SlotID) bool {
	if s.Over || s.Players[slot].Stalemate {
		return false
	}
	s.Players[slot].Stalemate = true
	if !s.Players[slot.Other()].Stalemate {
		return false
	}

	s.resolveStalemate()
	s.Players[SlotA].Stalemate = false
	s.Players[SlotB].Stalemate = false
	return true
}

// resolveStalemate either deals one reserve card from each player onto their
// own center pile, or — when either player is out of reserves — pools both
// center piles, shuffles, and restarts each pile with a single card. The
// leftover pooled cards are discarded; that shrinks the in-play set and is a
// known deviation from tabletop Speed rules, kept deliberately.
func (s *SpeedState) resolveStalemate() {
	a := s.Players[SlotA].firstNonEmptySidePile()
	b := s.Players[SlotB].firstNonEmptySidePile()
	if a >= 0 && b >= 0 {
		s.dealFromReserve(SlotA, a)
		s.dealFromReserve(SlotB, b)
		return
	}

	pool := append(slices.Clone(s.CenterPiles[0]), s.CenterPiles[1]...)
	ShuffleDeck(pool, s.rng)
	s.CenterPiles[0] = []Card{pool[0]}
	s.CenterPiles[1] = []Card{pool[1]}
}

func (s *SpeedState) dealFromReserve(slot SlotID, pileIdx int) {
	p := &s.Players[slot]
	s.CenterPiles[slot] = append(s.CenterPiles[slot], p.SidePiles[pileIdx][0])
	p.SidePiles[pileIdx] = p.SidePiles[pileIdx][1:]
}

// TotalCards counts every card still in play across both players and the
// center piles.
func (s *SpeedState) TotalCards() int {
	n := s.Players[SlotA].Remaining() + s.Players[SlotB].Remaining()
	for _, pile := range s.CenterPiles {
		n += len(pile)
	}
	return n
}

// PileTops returns the current top card of each center pile.
func (s *SpeedState) PileTops() [CenterPileCount]Card {
	var tops [CenterPileCount]Card
	for i, pile := range s.CenterPiles {
		tops[i] = pile[len(pile)-1]
	}
	return tops
}
