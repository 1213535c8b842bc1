// Package flatten reshapes the manifest's nested user/key declaration into
// the flat, uniquely-keyed collections the provisioning engine iterates
// over. All functions are pure and single-pass over their input.
//
// The permissive functions reproduce the semantics of the configuration
// this daemon replaced, including its two silent-data-loss hazards:
// duplicate usernames resolve last-write-wins, and a key string repeated
// within one user's list takes the index of its first occurrence, so the
// duplicates collide on one composite ID. The Strict variants surface both
// conditions as typed errors instead.
package flatten

import (
	"slices"

	"github.com/keyfleet/sftp-provisioner/internal/model"
)

// UsersByName projects the user list into a map keyed by username.
// On duplicate usernames the later entry silently overwrites the earlier.
func UsersByName(users []model.UserSpec) map[string]model.UserSpec {
	out := make(map[string]model.UserSpec, len(users))
	for _, u := range users {
		out[u.Username] = u
	}
	return out
}

// UsersByNameStrict is UsersByName that fails on the first duplicate
// username instead of overwriting.
func UsersByNameStrict(users []model.UserSpec) (map[string]model.UserSpec, error) {
	out := make(map[string]model.UserSpec, len(users))
	for _, u := range users {
		if _, ok := out[u.Username]; ok {
			return nil, &model.DuplicateUsernameError{Username: u.Username}
		}
		out[u.Username] = u
	}
	return out, nil
}

// Keys flattens every user's key list into one sequence, all of a user's
// keys before the next user's. Each entry's Index is the position of the
// first occurrence of that key string in the owner's list, which equals
// the iteration position only while the owner's keys are all distinct.
func Keys(users []model.UserSpec) []model.FlatKey {
	var out []model.FlatKey
	for _, u := range users {
		for _, key := range u.SSHPublicKeys {
			out = append(out, model.FlatKey{
				Username:     u.Username,
				SSHPublicKey: key,
				Index:        slices.Index(u.SSHPublicKeys, key),
			})
		}
	}
	return out
}

// KeysStrict is Keys that fails when a user's list repeats a key string,
// since the repeat would collide with the first occurrence's composite ID.
func KeysStrict(users []model.UserSpec) ([]model.FlatKey, error) {
	var out []model.FlatKey
	for _, u := range users {
		for i, key := range u.SSHPublicKeys {
			first := slices.Index(u.SSHPublicKeys, key)
			if first != i {
				return nil, &model.DuplicateKeyError{Username: u.Username, Index: first}
			}
			out = append(out, model.FlatKey{
				Username:     u.Username,
				SSHPublicKey: key,
				Index:        first,
			})
		}
	}
	return out, nil
}

// KeysByCompositeID projects a flat key sequence into a map keyed by
// "username-index". On colliding IDs the later entry wins.
func KeysByCompositeID(flat []model.FlatKey) map[string]model.FlatKey {
	out := make(map[string]model.FlatKey, len(flat))
	for _, k := range flat {
		out[k.CompositeID()] = k
	}
	return out
}
