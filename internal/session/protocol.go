// internal/session/protocol.go
//
// Wire contract between the server and a word hunt client.
//
// Every server message is one line terminated by "\n". Client messages are
// read with a buffered line reader, so a guess split over several TCP
// segments, or several guesses in one segment, are handled the same way.

package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Server → client messages.
const (
	msgWordList     = "WordList:%s"
	msgWordCount    = "WordCount:%d"
	msgCorrect      = "Correct! %s words found."
	msgAlreadyFound = "Already found. %s words found."
	msgIncorrect    = "Incorrect. Try again."
	msgGameOver     = "Game Over. "
	msgAll          = "All:%d"
	msgNewGame      = "Starting a new game!"

	msgBadFormat    = "Invalid message format. Please reconnect."
	msgBadTimeLimit = "Invalid time limit format. Please reconnect."
	msgNoWordLists  = "No word lists available. Please try again later."
	msgWordListErr  = "Could not load a word list. Please reconnect."
)

// PlayAgain is the control token a client sends to request a new round.
const PlayAgain = "PLAYAGAIN"

// IsPlayAgain reports whether line asks for a replay. Case is ignored.
func IsPlayAgain(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), PlayAgain)
}

// Handshake is the first client message, "<username>:<timeLimitSeconds>".
type Handshake struct {
	Username  string
	TimeLimit int // seconds, > 0
}

// ProtocolError means the client sent something the protocol does not
// allow. The diagnostic has already been sent when Run returns it.
type ProtocolError struct {
	Reason string // diagnostic sent to the client
}

func (e *ProtocolError) Error() string { return "protocol: " + e.Reason }

// TransportError wraps a failed read or write on the connection, including
// the peer closing it.
type TransportError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// IsProtocol reports whether err is a ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ParseHandshake splits msg on ':' and expects at least two fields: a
// username and a positive integer time limit. Extra fields are ignored.
func ParseHandshake(msg string) (Handshake, error) {
	fields := strings.Split(strings.TrimSpace(msg), ":")
	if len(fields) < 2 {
		return Handshake{}, &ProtocolError{Reason: msgBadFormat}
	}
	limit, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || limit <= 0 {
		return Handshake{}, &ProtocolError{Reason: msgBadTimeLimit}
	}
	return Handshake{Username: strings.TrimSpace(fields[0]), TimeLimit: limit}, nil
}
