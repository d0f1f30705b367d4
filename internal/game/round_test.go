package game

import "testing"

func testPuzzle() Puzzle {
	return Puzzle{Name: "t", Text: "ABCD", Required: 3, Words: []string{"cat", "bat", "rat", "owl"}}
}

func TestGuessCountsCorrectWords(t *testing.T) {
	r := NewRound(testPuzzle(), false)

	if got := r.Guess("cat"); got != OutcomeCorrect {
		t.Fatalf("cat = %s, want correct", got)
	}
	if got := r.Guess("dog"); got != OutcomeIncorrect {
		t.Fatalf("dog = %s, want incorrect", got)
	}
	if got := r.Progress(); got != "1/3" {
		t.Fatalf("progress = %q, want 1/3", got)
	}
	r.Guess("bat")
	r.Guess("rat")
	if !r.Finished {
		t.Fatalf("round should be finished at %s", r.Progress())
	}
	if got := r.Guess("owl"); got != OutcomeClosed {
		t.Fatalf("guess after finish = %s, want closed", got)
	}
	if r.Found != 3 {
		t.Fatalf("found = %d, want 3", r.Found)
	}
}

func TestGuessIsCaseSensitive(t *testing.T) {
	r := NewRound(testPuzzle(), false)
	for _, g := range []string{"CAT", "Cat", " cat"} {
		if got := r.Guess(g); got != OutcomeIncorrect {
			t.Fatalf("%q = %s, want incorrect", g, got)
		}
	}
	if r.Found != 0 {
		t.Fatalf("found = %d, want 0", r.Found)
	}
}

func TestRepeatedGuessCountsAgainByDefault(t *testing.T) {
	r := NewRound(testPuzzle(), false)
	r.Guess("cat")
	if got := r.Guess("cat"); got != OutcomeCorrect {
		t.Fatalf("repeat = %s, want correct", got)
	}
	if r.Found != 2 {
		t.Fatalf("found = %d, want 2", r.Found)
	}
}

func TestRepeatedGuessWithDedupe(t *testing.T) {
	r := NewRound(testPuzzle(), true)
	r.Guess("cat")
	if got := r.Guess("cat"); got != OutcomeRepeat {
		t.Fatalf("repeat = %s, want repeat", got)
	}
	if r.Found != 1 {
		t.Fatalf("found = %d, want 1", r.Found)
	}
}

func TestFoundNeverExceedsRequired(t *testing.T) {
	p := testPuzzle()
	p.Required = 1
	r := NewRound(p, false)
	r.Guess("cat")
	r.Guess("bat")
	if r.Found != 1 || !r.Finished {
		t.Fatalf("found = %d finished = %v, want 1 true", r.Found, r.Finished)
	}
}

func TestZeroRequiredStartsFinished(t *testing.T) {
	p := testPuzzle()
	p.Required = 0
	if r := NewRound(p, false); !r.Finished {
		t.Fatalf("round with nothing to find should start finished")
	}
}
