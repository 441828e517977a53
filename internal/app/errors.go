package app

import "fmt"

// notFoundError signals a model id absent from the catalog.
type notFoundError struct{ id string }

func (e notFoundError) Error() string { return fmt.Sprintf("model not found: %s", e.id) }

// ErrNotFound constructs a notFoundError for the given id.
func ErrNotFound(id string) error { return notFoundError{id: id} }

// IsNotFound reports whether err is a catalog miss.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}
