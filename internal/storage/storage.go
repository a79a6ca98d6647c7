package storage

import (
	"context"
	"errors"
	"fmt"
)

// DefaultKey identifies the movie collection document.
const DefaultKey = "cinelist_movies"

// ErrStorage is wrapped by every adapter failure.
var ErrStorage = errors.New("storage failure")

// Adapter is a durable key-value service holding one blob per key.
// Read reports found=false when the key has never been written.
type Adapter interface {
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	Write(ctx context.Context, key string, value []byte) error
	Close() error
}

type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
