package session

import (
	"github.com/parlorgames/parlor-backend/internal/engine"
	"github.com/parlorgames/parlor-backend/internal/types"
)

// snapshotFor projects the authoritative state for one recipient: shared
// fields plus that recipient's private ones. The hangman secret and the
// opponent's hand never cross the wire.
func (s *Session) snapshotFor(slot engine.SlotID) types.ServerMessage {
	msg := types.ServerMessage{
		Type:  types.MsgStateSnapshot,
		Phase: string(s.phase),
	}
	if s.word != nil {
		msg.Word = s.wordViewFor(slot)
	}
	if s.speed != nil {
		msg.Speed = s.speedViewFor(slot)
	}
	return msg
}

func (s *Session) wordViewFor(slot engine.SlotID) *types.WordView {
	names := s.reg.names()
	return &types.WordView{
		Revealed:      s.word.RevealedStrings(),
		Guessed:       s.word.GuessedLetters(),
		WrongCount:    s.word.WrongCount,
		MaxWrong:      engine.MaxWrong,
		Round:         s.round,
		SetterName:    names[s.word.Setter],
		GuesserName:   names[s.word.Guesser()],
		YouAreGuesser: slot == s.word.Guesser(),
	}
}

func (s *Session) speedViewFor(slot engine.SlotID) *types.SpeedView {
	me := &s.speed.Players[slot]
	opp := &s.speed.Players[slot.Other()]

	tops := s.speed.PileTops()
	view := &types.SpeedView{
		PileTops:          []string{tops[0].String(), tops[1].String()},
		Hand:              engine.CardStrings(me.Hand),
		SideCounts:        make([]int, engine.SidePileCount),
		OpponentHandCount: len(opp.Hand),
		OpponentStalemate: opp.Stalemate,
	}
	for i, pile := range me.SidePiles {
		view.SideCounts[i] = len(pile)
	}
	for _, pile := range opp.SidePiles {
		view.OpponentSideCount += len(pile)
	}
	return view
}

func (s *Session) broadcastSnapshots() {
	for i := range s.reg.slots {
		slot := engine.SlotID(i)
		if s.reg.get(slot) != nil {
			s.sendTo(slot, s.snapshotFor(slot))
		}
	}
}
