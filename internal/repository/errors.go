package repository

import "errors"

// ErrNotFound marks a lookup that matched no row. Callers check it with
// errors.Is; repositories wrap it with the entity name.
var ErrNotFound = errors.New("not found")
