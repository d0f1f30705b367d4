// internal/game/types.go
//
// Core type definitions for the word hunt round.
// Defines:
//   - Outcome: result of evaluating one guess.
//   - Puzzle: what a word list source deals (text, required finds, target words).
//   - Round: state for a single in-progress or finished puzzle.

package game

// Outcome represents the evaluation result for a single guess.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeRepeat    Outcome = "repeat" // correct word already counted (dedupe mode only)
	OutcomeClosed    Outcome = "closed" // round already finished
)

// Puzzle is one draw from a word list source.
type Puzzle struct {
	Name     string   // source-specific identifier (file name, db row name)
	Text     string   // opaque text shown to the player
	Required int      // distinct correct guesses needed to win
	Words    []string // target words, matched case-sensitively
}

// Round holds the state of one puzzle being played on a session.
// It is owned by a single session goroutine and is not safe for concurrent use.
type Round struct {
	Puzzle   Puzzle
	Found    int  // correct guesses counted so far, 0 <= Found <= Puzzle.Required
	Finished bool // true once Found reaches Puzzle.Required

	targets map[string]struct{}
	seen    map[string]struct{}
	dedupe  bool
}
