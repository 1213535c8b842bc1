// Package mocks contains testify mocks for the store interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/keyfleet/sftp-provisioner/internal/model"
)

// AccountStore is a mock of model.AccountStore.
type AccountStore struct {
	mock.Mock
}

func (m *AccountStore) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) List(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	var accounts []model.Account
	if v := args.Get(0); v != nil {
		accounts = v.([]model.Account)
	}
	return accounts, args.Error(1)
}

func (m *AccountStore) Create(ctx context.Context, account model.Account) (model.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) SoftDelete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// CredentialStore is a mock of model.CredentialStore.
type CredentialStore struct {
	mock.Mock
}

func (m *CredentialStore) GetByCompositeID(ctx context.Context, compositeID string) (model.Credential, error) {
	args := m.Called(ctx, compositeID)
	return args.Get(0).(model.Credential), args.Error(1)
}

func (m *CredentialStore) List(ctx context.Context) ([]model.Credential, error) {
	args := m.Called(ctx)
	var credentials []model.Credential
	if v := args.Get(0); v != nil {
		credentials = v.([]model.Credential)
	}
	return credentials, args.Error(1)
}

func (m *CredentialStore) ListByUsername(ctx context.Context, username string) ([]model.Credential, error) {
	args := m.Called(ctx, username)
	var credentials []model.Credential
	if v := args.Get(0); v != nil {
		credentials = v.([]model.Credential)
	}
	return credentials, args.Error(1)
}

func (m *CredentialStore) Create(ctx context.Context, credential model.Credential) (model.Credential, error) {
	args := m.Called(ctx, credential)
	return args.Get(0).(model.Credential), args.Error(1)
}

func (m *CredentialStore) SoftDelete(ctx context.Context, compositeID string) error {
	args := m.Called(ctx, compositeID)
	return args.Error(0)
}

// Storage is a mock of model.Storage.
type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	return rc, args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
