// Package types defines the JSON wire protocol between clients and the game
// server. One ClientMessage or ServerMessage per websocket text frame.
package types

// Client -> server message types.
const (
	MsgSubmitWord       = "SubmitWord" // Kind "custom" (+Word) or "random"
	MsgGuessLetter      = "GuessLetter"
	MsgPlayCard         = "PlayCard" // Card + Pile ("left"|"right")
	MsgDeclareStalemate = "DeclareStalemate"
	MsgRequestState     = "RequestState"
)

// Server -> client message types.
const (
	MsgRoleAssigned    = "RoleAssigned"    // Slot
	MsgOpponentJoined  = "OpponentJoined"  // Name
	MsgPhaseChanged    = "PhaseChanged"    // Phase, Names, Setter (hangman)
	MsgCountdownTick   = "CountdownTick"   // Count
	MsgStateSnapshot   = "StateSnapshot"   // Phase + Word or Speed view
	MsgStalemateSignal = "StalemateSignal" // opponent asked for a stalemate
	MsgGameOver        = "GameOver"        // Outcome
	MsgSessionReset    = "SessionReset"    // Reason
	MsgError           = "Error"           // Error
)

type ClientMessage struct {
	Type   string `json:"type"`
	Kind   string `json:"kind,omitempty"`
	Word   string `json:"word,omitempty"`
	Letter string `json:"letter,omitempty"`
	Card   string `json:"card,omitempty"`
	Pile   string `json:"pile,omitempty"`
}

type ServerMessage struct {
	Type    string     `json:"type"`
	Slot    string     `json:"slot,omitempty"`
	Name    string     `json:"name,omitempty"`
	Phase   string     `json:"phase,omitempty"`
	Names   []string   `json:"names,omitempty"`
	Setter  string     `json:"setter,omitempty"`
	Count   int        `json:"count,omitempty"`
	Word    *WordView  `json:"word,omitempty"`
	Speed   *SpeedView `json:"speed,omitempty"`
	Outcome *Outcome   `json:"outcome,omitempty"`
	Reason  string     `json:"reason,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// WordView is the per-recipient hangman projection. The secret never appears;
// clients only ever see the mask.
type WordView struct {
	Revealed      []string `json:"revealed"`
	Guessed       []string `json:"guessed"`
	WrongCount    int      `json:"wrong_count"`
	MaxWrong      int      `json:"max_wrong"`
	Round         int      `json:"round"`
	SetterName    string   `json:"setter_name"`
	GuesserName   string   `json:"guesser_name"`
	YouAreGuesser bool     `json:"you_are_guesser"`
}

// SpeedView is the per-recipient card projection: center pile tops and
// opponent counts are public, the hand is the recipient's own.
type SpeedView struct {
	PileTops          []string `json:"pile_tops"`
	Hand              []string `json:"hand"`
	SideCounts        []int    `json:"side_counts"`
	OpponentHandCount int      `json:"opponent_hand_count"`
	OpponentSideCount int      `json:"opponent_side_count"`
	OpponentStalemate bool     `json:"opponent_stalemate"`
}

// Outcome is the terminal result of a round. It doubles as the record handed
// to the result store.
type Outcome struct {
	Game       string `json:"game"`
	WinnerName string `json:"winner_name"`
	LoserName  string `json:"loser_name,omitempty"`

	// Hangman fields.
	GuesserName string `json:"guesser_name,omitempty"`
	SetterName  string `json:"setter_name,omitempty"`
	Word        string `json:"word,omitempty"`
	Won         bool   `json:"won,omitempty"`
	WrongCount  int    `json:"wrong_count,omitempty"`
	Round       int    `json:"round,omitempty"`
	ShowScores  bool   `json:"show_scores,omitempty"`

	// Speed fields.
	Remaining int `json:"remaining,omitempty"`
}
