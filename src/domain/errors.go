package domain

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")

	ErrUnknownEntityKind = errors.New("unknown entity kind")

	ErrInvalidRelationship = errors.New("invalid relationship")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)
