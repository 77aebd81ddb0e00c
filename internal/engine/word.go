package engine

import "strings"

const (
	// MaxWrong is the number of wrong guesses that loses the round.
	MaxWrong = 6
	// MaxRounds caps the hangman session; roles swap between rounds.
	MaxRounds = 2

	// Blank marks an unrevealed letter.
	Blank = '_'
)

// WordState is the authoritative hangman round. The setter chose the secret;
// only the opposite slot may guess. The secret itself must never leave the
// server except in the terminal result.
type WordState struct {
	Secret     string
	Revealed   []rune
	Guessed    map[rune]bool
	WrongCount int
	Setter     SlotID
	Over       bool
	Won        bool
}

// NewWordGame starts a round over the given secret, lowercased. The caller is
// expected to have validated the word as non-empty ASCII letters.
func NewWordGame(secret string, setter SlotID) *WordState {
	secret = strings.ToLower(secret)
	revealed := make([]rune, len(secret))
	for i := range revealed {
		revealed[i] = Blank
	}
	return &WordState{
		Secret:   secret,
		Revealed: revealed,
		Guessed:  make(map[rune]bool),
		Setter:   setter,
	}
}

func (w *WordState) Guesser() SlotID { return w.Setter.Other() }

// ValidWord reports whether a submitted secret is usable: at least two ASCII
// letters, nothing else.
func ValidWord(word string) bool {
	if len(word) < 2 {
		return false
	}
	for _, r := range strings.ToLower(word) {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// GuessResult reports what an accepted guess did to the round.
type GuessResult struct {
	Accepted bool
	Correct  bool
}

// ApplyGuess reveals every position matching letter, or bumps WrongCount when
// none match. Guesses from the setter slot, repeats, non-letters, and guesses
// after the round ended are all rejected without touching state. Winning
// (no blanks left) and losing (WrongCount hits MaxWrong) are mutually
// exclusive outcomes of a single guess: a correct final letter wins, a wrong
// sixth miss loses.
func (w *WordState) ApplyGuess(slot SlotID, letter rune) GuessResult {
	if w.Over || slot != w.Guesser() {
		return GuessResult{}
	}
	if letter < 'a' || letter > 'z' || w.Guessed[letter] {
		return GuessResult{}
	}
	w.Guessed[letter] = true

	correct := false
	for i, r := range w.Secret {
		if r == letter {
			w.Revealed[i] = r
			correct = true
		}
	}

	if correct {
		if !strings.ContainsRune(string(w.Revealed), Blank) {
			w.Over = true
			w.Won = true
		}
	} else {
		w.WrongCount++
		if w.WrongCount >= MaxWrong {
			w.Over = true
		}
	}
	return GuessResult{Accepted: true, Correct: correct}
}

// RevealedStrings renders the mask for clients, one cell per letter.
func (w *WordState) RevealedStrings() []string {
	out := make([]string, len(w.Revealed))
	for i, r := range w.Revealed {
		out[i] = string(r)
	}
	return out
}

// GuessedLetters lists prior guesses in alphabetical order.
func (w *WordState) GuessedLetters() []string {
	out := make([]string, 0, len(w.Guessed))
	for r := 'a'; r <= 'z'; r++ {
		if w.Guessed[r] {
			out = append(out, string(r))
		}
	}
	return out
}
