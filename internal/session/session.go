// Package session implements the per-room coordination core: a two-slot
// connection registry, the lifecycle state machine, authoritative game state,
// and per-recipient broadcasting. Each session runs as a single goroutine
// consuming an inbox, so every inbound event is handled to completion before
// the next — there is no interleaved mutation of game state.
package session

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parlorgames/parlor-backend/internal/engine"
	"github.com/parlorgames/parlor-backend/internal/types"
)

type Mode string

const (
	ModeHangman Mode = "hangman"
	ModeSpeed   Mode = "speed"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePairing   Phase = "pairing"
	PhasePreparing Phase = "preparing"
	PhaseActive    Phase = "active"
	PhaseTerminal  Phase = "terminal"
)

const countdownTicks = 3

// Recorder persists terminal outcomes. Calls are fire-and-forget: failures
// are logged and never block or fail the session.
type Recorder interface {
	Record(ctx context.Context, o types.Outcome) error
}

// WordSource supplies secrets for "random" word requests.
type WordSource interface {
	RandomWord(ctx context.Context) (string, error)
}

// Options carries session collaborators; zero values get safe defaults.
type Options struct {
	Recorder Recorder
	Words    WordSource
	Logger   *zap.Logger
	Rand     *rand.Rand

	// OnIdle is invoked whenever the session empties out, so the owner can
	// reap it. Called from the session goroutine; must not block.
	OnIdle func()

	// TickInterval is the countdown granularity, one second unless tests
	// shorten it.
	TickInterval time.Duration
}

type Session struct {
	inbox chan Msg
	mode  Mode
	phase Phase
	reg   registry

	word  *engine.WordState
	speed *engine.SpeedState

	round  int
	setter engine.SlotID

	countdown int
	timerGen  int
	tick      time.Duration

	// rejected counts silently dropped actions; observable via GetState but
	// never surfaced to the opposing client.
	rejected int

	rec    Recorder
	words  WordSource
	rng    *rand.Rand
	log    *zap.Logger
	onIdle func()

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, mode Mode, opts Options) *Session {
	ctx, cancel := context.WithCancel(parent)

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}

	s := &Session{
		inbox:  make(chan Msg, 64),
		mode:   mode,
		phase:  PhaseIdle,
		tick:   opts.TickInterval,
		rec:    opts.Recorder,
		words:  opts.Words,
		rng:    opts.Rand,
		log:    opts.Logger,
		onIdle: opts.OnIdle,
		ctx:    ctx,
		cancel: cancel,
	}
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.handleJoin(msg)
			case Leave:
				s.handleLeave(msg)
			case FromClient:
				s.handleFromClient(msg)
			case timerFired:
				s.handleTimer(msg)
			case GetState:
				msg.Reply <- s.summary()
			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleJoin(msg Join) {
	slot, err := s.reg.register(msg.ConnID, msg.Name, msg.Outbox)
	msg.Reply <- JoinReply{Slot: slot, Err: err}
	if err != nil {
		s.log.Debug("join refused", zap.String("name", msg.Name), zap.Error(err))
		return
	}
	s.log.Info("player joined",
		zap.String("name", msg.Name),
		zap.Stringer("slot", slot))

	s.sendTo(slot, types.ServerMessage{Type: types.MsgRoleAssigned, Slot: slot.String(), Name: msg.Name})
	s.sendTo(slot.Other(), types.ServerMessage{Type: types.MsgOpponentJoined, Name: msg.Name})

	if s.reg.count() == 2 {
		s.phase = PhasePairing
		s.startPreparing()
	}
}

// startPreparing enters the pre-game phase: word selection for hangman, a
// countdown for speed. Round bookkeeping survives hangman rotations.
func (s *Session) startPreparing() {
	s.phase = PhasePreparing

	if s.mode == ModeHangman && s.round == 0 {
		s.round = 1
		s.setter = engine.SlotA
	}

	names := s.reg.names()
	msg := types.ServerMessage{
		Type:  types.MsgPhaseChanged,
		Phase: string(s.phase),
		Names: names[:],
	}
	if s.mode == ModeHangman {
		msg.Setter = names[s.setter]
	}
	s.broadcast(msg)

	if s.mode == ModeSpeed {
		s.countdown = countdownTicks
		s.broadcast(types.ServerMessage{Type: types.MsgCountdownTick, Count: s.countdown})
		s.armTimer()
	}
}

func (s *Session) armTimer() {
	gen := s.timerGen
	time.AfterFunc(s.tick, func() {
		select {
		case s.inbox <- timerFired{gen: gen}:
		case <-s.ctx.Done():
		}
	})
}

func (s *Session) handleTimer(msg timerFired) {
	if msg.gen != s.timerGen || s.phase != PhasePreparing || s.mode != ModeSpeed {
		return
	}
	s.countdown--
	if s.countdown > 0 {
		s.broadcast(types.ServerMessage{Type: types.MsgCountdownTick, Count: s.countdown})
		s.armTimer()
		return
	}
	s.enterActiveSpeed()
}

func (s *Session) enterActiveSpeed() {
	s.phase = PhaseActive
	s.speed = engine.NewSpeedGame(s.rng)
	names := s.reg.names()
	s.broadcast(types.ServerMessage{
		Type:  types.MsgPhaseChanged,
		Phase: string(s.phase),
		Names: names[:],
	})
	s.broadcastSnapshots()
}

func (s *Session) handleFromClient(msg FromClient) {
	slot, err := s.reg.resolve(msg.ConnID)
	if err != nil {
		s.reject("unknown connection")
		return
	}

	switch msg.Msg.Type {
	case types.MsgSubmitWord:
		s.handleSubmitWord(slot, msg.Msg)
	case types.MsgGuessLetter:
		s.handleGuess(slot, msg.Msg)
	case types.MsgPlayCard:
		s.handlePlayCard(slot, msg.Msg)
	case types.MsgDeclareStalemate:
		s.handleStalemate(slot)
	case types.MsgRequestState:
		s.sendTo(slot, s.snapshotFor(slot))
	default:
		s.reject("unknown message type")
	}
}

func (s *Session) handleSubmitWord(slot engine.SlotID, m types.ClientMessage) {
	if s.mode != ModeHangman || s.phase != PhasePreparing || slot != s.setter {
		s.reject("word submission out of turn")
		return
	}

	var secret string
	switch m.Kind {
	case "custom":
		secret = strings.ToLower(strings.TrimSpace(m.Word))
		if !engine.ValidWord(secret) {
			s.sendTo(slot, types.ServerMessage{Type: types.MsgError, Error: "word must be letters only"})
			return
		}
	case "random":
		secret = s.randomWord()
	default:
		s.reject("unknown word kind")
		return
	}

	s.word = engine.NewWordGame(secret, s.setter)
	s.phase = PhaseActive
	names := s.reg.names()
	s.broadcast(types.ServerMessage{
		Type:  types.MsgPhaseChanged,
		Phase: string(s.phase),
		Names: names[:],
	})
	s.broadcastSnapshots()
}

func (s *Session) randomWord() string {
	if s.words != nil {
		ctx, cancel := context.WithTimeout(s.ctx, 3*time.Second)
		defer cancel()
		if w, err := s.words.RandomWord(ctx); err == nil && engine.ValidWord(w) {
			return strings.ToLower(w)
		} else if err != nil {
			s.log.Warn("random word lookup failed, using fallback", zap.Error(err))
		}
	}
	return fallbackWords[s.rng.IntN(len(fallbackWords))]
}

// fallbackWords keeps random selection working without a database.
var fallbackWords = []string{
	"hangman", "computer", "keyboard", "monitor", "server",
	"network", "password", "terminal", "library", "function",
}

func (s *Session) handleGuess(slot engine.SlotID, m types.ClientMessage) {
	if s.mode != ModeHangman || s.phase != PhaseActive || s.word == nil {
		s.reject("guess outside active hangman round")
		return
	}
	letter := []rune(strings.ToLower(strings.TrimSpace(m.Letter)))
	if len(letter) != 1 {
		s.reject("malformed guess")
		return
	}
	res := s.word.ApplyGuess(slot, letter[0])
	if !res.Accepted {
		s.reject("guess rejected")
		return
	}

	s.broadcastSnapshots()
	if s.word.Over {
		s.finishHangman()
	}
}

func (s *Session) finishHangman() {
	s.phase = PhaseTerminal
	names := s.reg.names()
	guesser := s.word.Guesser()

	out := types.Outcome{
		Game:        string(ModeHangman),
		GuesserName: names[guesser],
		SetterName:  names[s.setter],
		Word:        s.word.Secret,
		Won:         s.word.Won,
		WrongCount:  s.word.WrongCount,
		Round:       s.round,
		ShowScores:  s.round >= engine.MaxRounds,
	}
	if s.word.Won {
		out.WinnerName, out.LoserName = names[guesser], names[s.setter]
	} else {
		out.WinnerName, out.LoserName = names[s.setter], names[guesser]
	}

	s.broadcast(types.ServerMessage{Type: types.MsgGameOver, Outcome: &out})
	s.record(out)
	s.log.Info("hangman round finished",
		zap.String("winner", out.WinnerName),
		zap.Int("round", s.round),
		zap.Bool("won", s.word.Won))

	if s.round < engine.MaxRounds {
		s.round++
		s.setter = s.setter.Other()
		s.word = nil
		s.startPreparing()
	}
}

func (s *Session) handlePlayCard(slot engine.SlotID, m types.ClientMessage) {
	if s.mode != ModeSpeed || s.phase != PhaseActive || s.speed == nil {
		s.reject("card play outside active speed game")
		return
	}
	card, ok := engine.ParseCard(strings.ToUpper(strings.TrimSpace(m.Card)))
	if !ok {
		s.reject("malformed card")
		return
	}
	pile, ok := parsePile(m.Pile)
	if !ok {
		s.reject("malformed pile")
		return
	}
	if !s.speed.PlayCard(slot, card, pile) {
		s.reject("illegal card move")
		return
	}

	s.broadcastSnapshots()
	if s.speed.Over {
		s.finishSpeed()
	}
}

func parsePile(p string) (int, bool) {
	switch p {
	case "left":
		return 0, true
	case "right":
		return 1, true
	default:
		return 0, false
	}
}

func (s *Session) handleStalemate(slot engine.SlotID) {
	if s.mode != ModeSpeed || s.phase != PhaseActive || s.speed == nil {
		s.reject("stalemate outside active speed game")
		return
	}
	if s.speed.Players[slot].Stalemate {
		s.reject("stalemate already declared")
		return
	}

	resolved := s.speed.DeclareStalemate(slot)

	name := s.reg.names()[slot]
	s.sendTo(slot.Other(), types.ServerMessage{Type: types.MsgStalemateSignal, Name: name})

	if resolved {
		s.broadcastSnapshots()
	}
}

func (s *Session) finishSpeed() {
	s.phase = PhaseTerminal
	names := s.reg.names()
	winner := s.speed.Winner

	out := types.Outcome{
		Game:       string(ModeSpeed),
		WinnerName: names[winner],
		LoserName:  names[winner.Other()],
		Remaining:  s.speed.Players[winner.Other()].Remaining(),
	}
	s.broadcast(types.ServerMessage{Type: types.MsgGameOver, Outcome: &out})
	s.record(out)
	s.log.Info("speed game finished",
		zap.String("winner", out.WinnerName),
		zap.Int("remaining", out.Remaining))
}

// record hands the outcome to the recorder off the session goroutine. Errors
// are logged and otherwise ignored.
func (s *Session) record(out types.Outcome) {
	if s.rec == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.rec.Record(ctx, out); err != nil {
			s.log.Error("result record failed", zap.String("game", out.Game), zap.Error(err))
		}
	}()
}

func (s *Session) handleLeave(msg Leave) {
	slot, err := s.reg.resolve(msg.ConnID)
	if err != nil {
		return
	}
	name := s.reg.get(slot).name
	s.reg.release(msg.ConnID)
	s.log.Info("player left", zap.String("name", name), zap.Stringer("slot", slot))

	if s.phase != PhaseIdle {
		s.reset(name + " disconnected")
		return
	}
	s.notifyIdle()
}

// reset tears the session down to its initial empty state. The remaining
// peer, if any, gets a one-time notification before its outbox is closed;
// the ws layer turns that close into a connection close, so both sides
// rejoin fresh.
func (s *Session) reset(reason string) {
	s.timerGen++
	s.countdown = 0
	s.word = nil
	s.speed = nil
	s.round = 0
	s.setter = engine.SlotA
	s.phase = PhaseIdle

	for _, c := range s.reg.slots {
		if c == nil {
			continue
		}
		select {
		case c.outbox <- types.ServerMessage{Type: types.MsgSessionReset, Reason: reason}:
		default:
		}
		close(c.outbox)
	}
	s.reg.releaseAll()
	s.notifyIdle()
}

// notifyIdle tells the owner the session is back to empty idle so it can be
// reaped. Never called during shutdown, which the owner initiated itself.
func (s *Session) notifyIdle() {
	if s.onIdle != nil && s.reg.count() == 0 {
		s.onIdle()
	}
}

func (s *Session) shutdown() {
	s.timerGen++
	for _, c := range s.reg.slots {
		if c != nil {
			close(c.outbox)
		}
	}
	s.reg.releaseAll()
	s.cancel()
}

func (s *Session) reject(reason string) {
	s.rejected++
	s.log.Debug("action dropped", zap.String("reason", reason))
}

func (s *Session) sendTo(slot engine.SlotID, m types.ServerMessage) {
	c := s.reg.get(slot)
	if c == nil {
		return
	}
	select {
	case c.outbox <- m:
	default:
		// Stalled consumer: treat like a lost peer.
		s.log.Warn("dropping stalled client", zap.Stringer("slot", slot))
		close(c.outbox)
		s.reg.release(c.id)
		if s.phase != PhaseIdle {
			s.reset("peer connection stalled")
		}
	}
}

func (s *Session) broadcast(m types.ServerMessage) {
	s.sendTo(engine.SlotA, m)
	s.sendTo(engine.SlotB, m)
}

func (s *Session) summary() Summary {
	sum := Summary{
		Phase:      s.phase,
		NumClients: s.reg.count(),
		Names:      s.reg.names(),
		Round:      s.round,
		Rejected:   s.rejected,
	}
	if s.word != nil {
		sum.Revealed = string(s.word.Revealed)
		sum.WrongCount = s.word.WrongCount
	}
	if s.speed != nil {
		sum.TotalCards = s.speed.TotalCards()
	}
	return sum
}
