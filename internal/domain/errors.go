package domain

import "errors"

var (
	// ErrFetchFailed is the single classification for every provider failure
	// (network, timeout, bad status, malformed body). Callers may retry.
	ErrFetchFailed = errors.New("could not fetch trivia questions")
	// ErrNoQuestions is returned when an operation needs a loaded session.
	ErrNoQuestions = errors.New("no questions loaded")
	// ErrLoadInProgress is returned when a fetch is already in flight.
	ErrLoadInProgress = errors.New("a question fetch is already in progress")
	// ErrIndexOutOfRange is returned for navigation outside the question list.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrNotSignedIn indicates no user identity is available for keying history.
	ErrNotSignedIn = errors.New("no signed-in user")
)
