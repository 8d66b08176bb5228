package domain

import "errors"

var (
	// ErrAlreadyAnswered is returned when a question receives a second submission.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrInvalidTransition is returned when an intent arrives in a phase that does not accept it.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrIndexOutOfRange indicates a deck position outside [0, size).
	ErrIndexOutOfRange = errors.New("deck index out of range")
	// ErrInvalidQuestion indicates a malformed question was rejected at construction.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrEmptyDeck is returned when a deck or game has no questions.
	ErrEmptyDeck = errors.New("deck has no questions")
	// ErrCatalogNotFound indicates the requested catalog is not embedded in the binary.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrGameNotFound is returned when a game id is unknown.
	ErrGameNotFound = errors.New("game not found")
	// ErrGameClosed is returned for intents delivered after a game was closed.
	ErrGameClosed = errors.New("game closed")
)
