package domain

import "errors"

var (
	// ErrNotFound indicates a requested topic or block does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTopicBusy indicates the topic is already open in another editing session.
	ErrTopicBusy = errors.New("topic is already open for editing")

	// ErrUnsupportedDriver indicates an unknown storage backend.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)
