// Package manifest loads and validates the declarative user manifest the
// provisioner reconciles against.
package manifest

import (
	"fmt"
	"os"
	"regexp"

	"golang.org/x/crypto/ssh"
	"gopkg.in/yaml.v3"

	"github.com/keyfleet/sftp-provisioner/internal/flatten"
	"github.com/keyfleet/sftp-provisioner/internal/model"
)

// Manifest is the on-disk document shape.
type Manifest struct {
	Users []model.UserSpec `yaml:"users"`
}

var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9._-]{0,31}$`)

// Load reads and parses a manifest file and validates its contents.
func Load(path string) ([]model.UserSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := Validate(m.Users); err != nil {
		return nil, err
	}

	return m.Users, nil
}

// Validate checks usernames, key material and uniqueness. Duplicate
// usernames and repeated key strings within one user are rejected rather
// than resolved last-write-wins.
func Validate(users []model.UserSpec) error {
	for _, u := range users {
		if !usernamePattern.MatchString(u.Username) {
			return fmt.Errorf("invalid username %q", u.Username)
		}
		for i, key := range u.SSHPublicKeys {
			if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
				return fmt.Errorf("user %q key %d: invalid public key: %w", u.Username, i, err)
			}
		}
	}

	if _, err := flatten.UsersByNameStrict(users); err != nil {
		return err
	}
	if _, err := flatten.KeysStrict(users); err != nil {
		return err
	}

	return nil
}

// Fingerprint returns the SHA256 fingerprint of a public key in
// authorized-keys text format.
func Fingerprint(key string) (string, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key))
	if err != nil {
		return "", fmt.Errorf("failed to parse public key: %w", err)
	}
	return ssh.FingerprintSHA256(pub), nil
}
