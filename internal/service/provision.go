package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/keyfleet/sftp-provisioner/internal/flatten"
	"github.com/keyfleet/sftp-provisioner/internal/logger"
	"github.com/keyfleet/sftp-provisioner/internal/manifest"
	"github.com/keyfleet/sftp-provisioner/internal/model"
)

const authorizedKeysPrefix = "authorized_keys/"

// Provisioner reconciles the manifest's desired state against the recorded
// accounts and credentials, and publishes rendered authorized_keys files
// for the SFTP frontends.
type Provisioner struct {
	accounts    model.AccountStore
	credentials model.CredentialStore
	storage     model.Storage
	logger      *logger.Logger
	homeDirBase string
}

func NewProvisioner(
	accounts model.AccountStore,
	credentials model.CredentialStore,
	storage model.Storage,
	logger *logger.Logger,
	homeDirBase string,
) *Provisioner {
	return &Provisioner{
		accounts:    accounts,
		credentials: credentials,
		storage:     storage,
		logger:      logger,
		homeDirBase: strings.TrimSuffix(homeDirBase, "/"),
	}
}

// Plan computes the changes needed to bring the recorded state in line
// with the manifest. Duplicate usernames and repeated keys fail here
// rather than resolving last-write-wins.
func (s *Provisioner) Plan(ctx context.Context, users []model.UserSpec) (model.Plan, error) {
	desiredUsers, err := flatten.UsersByNameStrict(users)
	if err != nil {
		return model.Plan{}, err
	}

	flat, err := flatten.KeysStrict(users)
	if err != nil {
		return model.Plan{}, err
	}
	desiredKeys := flatten.KeysByCompositeID(flat)

	currentAccounts, err := s.accounts.List(ctx)
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	currentCredentials, err := s.credentials.List(ctx)
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to list credentials: %w", err)
	}

	accountsByName := make(map[string]model.Account, len(currentAccounts))
	for _, a := range currentAccounts {
		accountsByName[a.Username] = a
	}
	credentialsByID := make(map[string]model.Credential, len(currentCredentials))
	for _, c := range currentCredentials {
		credentialsByID[c.CompositeID] = c
	}

	var plan model.Plan

	for _, u := range users {
		if _, ok := accountsByName[u.Username]; !ok {
			plan.CreateAccounts = append(plan.CreateAccounts, u)
		}
	}
	for _, a := range currentAccounts {
		if _, ok := desiredUsers[a.Username]; !ok {
			plan.DeleteAccounts = append(plan.DeleteAccounts, a.Username)
		}
	}

	for _, k := range flat {
		current, ok := credentialsByID[k.CompositeID()]
		if ok && current.PublicKey == k.SSHPublicKey {
			continue
		}
		if ok {
			// same composite ID, different key material: replace
			plan.DeleteCredentials = append(plan.DeleteCredentials, k.CompositeID())
		}
		plan.CreateCredentials = append(plan.CreateCredentials, k)
	}
	for _, c := range currentCredentials {
		if _, ok := desiredKeys[c.CompositeID]; !ok {
			plan.DeleteCredentials = append(plan.DeleteCredentials, c.CompositeID)
		}
	}

	return plan, nil
}

// Apply executes a plan in dependency order: accounts are created before
// their credentials, credentials are deleted before their accounts. The
// authorized_keys objects of every touched user are re-published last.
func (s *Provisioner) Apply(ctx context.Context, plan model.Plan) error {
	touched := make(map[string]struct{})

	for _, u := range plan.CreateAccounts {
		account := model.Account{
			ID:       uuid.New(),
			Username: u.Username,
			HomeDir:  s.homeDirBase + "/" + u.Username,
		}
		if _, err := s.accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("failed to create account %q: %w", u.Username, err)
		}
		s.logger.Info("account created", "username", u.Username)
		touched[u.Username] = struct{}{}
	}

	for _, compositeID := range plan.DeleteCredentials {
		credential, err := s.credentials.GetByCompositeID(ctx, compositeID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to get credential %q: %w", compositeID, err)
		}
		if err == nil {
			touched[credential.Username] = struct{}{}
		}
		if err := s.credentials.SoftDelete(ctx, compositeID); err != nil && !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to delete credential %q: %w", compositeID, err)
		}
		s.logger.Info("credential deleted", "composite_id", compositeID)
	}

	for _, k := range plan.CreateCredentials {
		account, err := s.accounts.GetByUsername(ctx, k.Username)
		if err != nil {
			return fmt.Errorf("failed to get account for credential %q: %w", k.CompositeID(), err)
		}

		fingerprint, err := manifest.Fingerprint(k.SSHPublicKey)
		if err != nil {
			return fmt.Errorf("credential %q: %w", k.CompositeID(), err)
		}

		credential := model.Credential{
			ID:          uuid.New(),
			AccountID:   account.ID,
			CompositeID: k.CompositeID(),
			Username:    k.Username,
			PublicKey:   k.SSHPublicKey,
			Fingerprint: fingerprint,
			KeyIndex:    k.Index,
		}
		if _, err := s.credentials.Create(ctx, credential); err != nil {
			return fmt.Errorf("failed to create credential %q: %w", k.CompositeID(), err)
		}
		s.logger.Info("credential created", "composite_id", k.CompositeID(), "fingerprint", fingerprint)
		touched[k.Username] = struct{}{}
	}

	for _, username := range plan.DeleteAccounts {
		if err := s.accounts.SoftDelete(ctx, username); err != nil && !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to delete account %q: %w", username, err)
		}
		s.logger.Info("account deleted", "username", username)
		if err := s.storage.Delete(ctx, authorizedKeysObject(username)); err != nil {
			s.logger.Error("failed to delete authorized_keys object", "username", username, "error", err)
		}
		delete(touched, username)
	}

	for username := range touched {
		if err := s.publishAuthorizedKeys(ctx, username); err != nil {
			return err
		}
	}

	return nil
}

// Reconcile plans against the given manifest users and applies the result.
func (s *Provisioner) Reconcile(ctx context.Context, users []model.UserSpec) (model.Plan, error) {
	plan, err := s.Plan(ctx, users)
	if err != nil {
		return model.Plan{}, err
	}
	if plan.Empty() {
		s.logger.Info("state up to date, nothing to apply")
		return plan, nil
	}
	if err := s.Apply(ctx, plan); err != nil {
		return model.Plan{}, err
	}
	return plan, nil
}

// Accounts returns all live accounts.
func (s *Provisioner) Accounts(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// AccountKeys returns the live credentials of one account.
func (s *Provisioner) AccountKeys(ctx context.Context, username string) ([]model.Credential, error) {
	if _, err := s.accounts.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	credentials, err := s.credentials.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	return credentials, nil
}

// RenderAuthorizedKeys renders credentials into authorized_keys file
// content, one key per line in index order.
func RenderAuthorizedKeys(credentials []model.Credential) string {
	if len(credentials) == 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range credentials {
		b.WriteString(c.PublicKey)
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *Provisioner) publishAuthorizedKeys(ctx context.Context, username string) error {
	credentials, err := s.credentials.ListByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to list credentials for %q: %w", username, err)
	}

	content := RenderAuthorizedKeys(credentials)
	key := authorizedKeysObject(username)
	if err := s.storage.Upload(ctx, key, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", key, err)
	}
	s.logger.Info("authorized_keys published", "username", username, "keys", len(credentials))
	return nil
}

func authorizedKeysObject(username string) string {
	return authorizedKeysPrefix + username
}
