// internal/game/round.go
//
// Guess evaluation for a single word hunt round.
// Responsibilities:
//   - Build the target word set from a drawn Puzzle.
//   - Exact, case-sensitive matching of guesses against the set.
//   - Track progress and the playing → finished transition.
//
// Notes:
//   - By default a repeated correct guess is counted again, matching the
//     long-standing server behavior. NewRound(p, true) switches to counting each
//     word once.

package game

import "fmt"

// NewRound starts a round for p. When dedupe is true a target word only
// counts the first time it is guessed.
func NewRound(p Puzzle, dedupe bool) *Round {
	r := &Round{
		Puzzle:  p,
		targets: make(map[string]struct{}, len(p.Words)),
		seen:    make(map[string]struct{}),
		dedupe:  dedupe,
	}
	for _, w := range p.Words {
		r.targets[w] = struct{}{}
	}
	// A puzzle that asks for nothing is already solved.
	r.Finished = p.Required <= 0
	return r
}

// Guess evaluates one trimmed guess and mutates the round.
//
// State transitions:
//   - Correct guess → Found++; when Found == Required → Finished.
//   - Guesses after Finished are rejected with OutcomeClosed and change nothing.
func (r *Round) Guess(word string) Outcome {
	if r.Finished {
		return OutcomeClosed
	}
	if _, ok := r.targets[word]; !ok {
		return OutcomeIncorrect
	}
	if r.dedupe {
		if _, dup := r.seen[word]; dup {
			return OutcomeRepeat
		}
		r.seen[word] = struct{}{}
	}
	r.Found++
	if r.Found >= r.Puzzle.Required {
		r.Found = r.Puzzle.Required
		r.Finished = true
	}
	return OutcomeCorrect
}

// Progress renders "<found>/<required>" for client replies.
func (r *Round) Progress() string {
	return fmt.Sprintf("%d/%d", r.Found, r.Puzzle.Required)
}

