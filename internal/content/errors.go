package content

import "github.com/rotisserie/eris"

var (
	// ErrNotFound is returned when a record addressed by id or unique key does not exist.
	ErrNotFound = eris.New("record not found")
	// ErrDuplicate is returned when a unique key (race name, user email) is already taken.
	ErrDuplicate = eris.New("record already exists")
	// ErrInvalidReference is returned when a related id supplied in a body does not exist.
	ErrInvalidReference = eris.New("referenced record does not exist")
)
