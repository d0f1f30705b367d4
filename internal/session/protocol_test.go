package session

import "testing"

func TestParseHandshake(t *testing.T) {
	hs, err := ParseHandshake(" alice : 60 \r")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if hs.Username != "alice" || hs.TimeLimit != 60 {
		t.Fatalf("handshake = %+v", hs)
	}

	// extra fields after the time limit are ignored
	hs, err = ParseHandshake("bob:45:extra")
	if err != nil || hs.TimeLimit != 45 {
		t.Fatalf("handshake = %+v, err = %v", hs, err)
	}
}

func TestIsPlayAgain(t *testing.T) {
	for _, in := range []string{"PLAYAGAIN", "playagain", " PlayAgain\n"} {
		if !IsPlayAgain(in) {
			t.Fatalf("%q should request replay", in)
		}
	}
	for _, in := range []string{"PLAY AGAIN", "again", ""} {
		if IsPlayAgain(in) {
			t.Fatalf("%q should not request replay", in)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	_, err := ParseHandshake("nope")
	if !IsProtocol(err) || IsTransport(err) {
		t.Fatalf("err = %v, want protocol only", err)
	}
	te := &TransportError{Op: "read", Err: errTest}
	if !IsTransport(te) || IsProtocol(te) {
		t.Fatalf("err = %v, want transport only", te)
	}
}

type testErr struct{}

func (testErr) Error() string { return "boom" }

var errTest = testErr{}
