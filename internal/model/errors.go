package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no live row matches.
var ErrNotFound = errors.New("not found")

// DuplicateUsernameError reports two manifest entries sharing a username.
// The permissive projections resolve this silently with last-write-wins;
// strict callers fail with this error instead.
type DuplicateUsernameError struct {
	Username string
}

func (e *DuplicateUsernameError) Error() string {
	return fmt.Sprintf("duplicate username %q in manifest", e.Username)
}

// DuplicateKeyError reports the same key string appearing twice in one
// user's list. Both occurrences resolve to the first occurrence's index,
// so their composite IDs collide and one entry is silently dropped by the
// permissive projection; strict callers fail with this error instead.
type DuplicateKeyError struct {
	Username string
	Index    int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("user %q lists the key at index %d more than once", e.Username, e.Index)
}
