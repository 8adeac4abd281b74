package author

import "errors"

// ErrNotFound is returned when no author matches the lookup.
var ErrNotFound = errors.New("author not found")

// Author is an email-identified account. There is no password or token;
// the client presents the returned id on subsequent calls.
type Author struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
