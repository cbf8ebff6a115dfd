package domain

import "errors"

// ErrAlgorithmNotFound is returned when an algorithm ID is not part of the catalog.
var ErrAlgorithmNotFound = errors.New("algorithm not found")

// ErrSessionNotFound is returned when a session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// ErrRunNotFound is returned by run caches on a miss.
var ErrRunNotFound = errors.New("run not found")

// ErrInvalidInput is returned when loosely typed input cannot be decoded into an Input.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidPermalink is returned when a permalink payload cannot be decoded.
var ErrInvalidPermalink = errors.New("invalid permalink")
