package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectAPI implements objectAPI without network.
type fakeObjectAPI struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error

	putErr error

	getRC  io.ReadCloser
	getErr error

	removeErr error

	statErr error
}

func (f *fakeObjectAPI) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeObjectAPI) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	return f.makeBucketErr
}

func (f *fakeObjectAPI) PutObject(_ context.Context, _ string, _ string, _ io.Reader, _ int64, _ minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	return minioLib.UploadInfo{}, f.putErr
}

func (f *fakeObjectAPI) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}

func (f *fakeObjectAPI) RemoveObject(_ context.Context, _ string, _ string, _ minioLib.RemoveObjectOptions) error {
	return f.removeErr
}

func (f *fakeObjectAPI) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{}, f.statErr
}

func TestNewClientWithAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeObjectAPI{bucketExists: true}, "keys")
		require.NoError(t, err)
		assert.Equal(t, "keys", c.bucket)
	})

	t.Run("bucket created", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeObjectAPI{bucketExists: false}, "keys")
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("bucket check fails", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeObjectAPI{bucketExistsErr: errors.New("boom")}, "keys")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ensure bucket exists")
	})

	t.Run("bucket creation fails", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeObjectAPI{makeBucketErr: errors.New("fail")}, "keys")
		assert.Nil(t, c)
		assert.Error(t, err)
	})
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := &Client{api: &fakeObjectAPI{}, bucket: "keys"}
		assert.NoError(t, c.Upload(ctx, "authorized_keys/ben", bytes.NewReader([]byte("ssh-ed25519 AAAA\n"))))
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeObjectAPI{putErr: errors.New("put-fail")}, bucket: "keys"}
		err := c.Upload(ctx, "authorized_keys/ben", bytes.NewReader(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := &Client{api: &fakeObjectAPI{getRC: io.NopCloser(bytes.NewReader([]byte("abc")))}, bucket: "keys"}
		rc, err := c.Download(ctx, "authorized_keys/ben")
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeObjectAPI{getErr: errors.New("get-fail")}, bucket: "keys"}
		rc, err := c.Download(ctx, "authorized_keys/ben")
		assert.Nil(t, rc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := &Client{api: &fakeObjectAPI{}, bucket: "keys"}
		assert.NoError(t, c.Delete(ctx, "authorized_keys/ben"))
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeObjectAPI{removeErr: errors.New("remove-fail")}, bucket: "keys"}
		err := c.Delete(ctx, "authorized_keys/ben")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete object")
	})
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		c := &Client{api: &fakeObjectAPI{}, bucket: "keys"}
		ok, err := c.Exists(ctx, "authorized_keys/ben")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stat error", func(t *testing.T) {
		c := &Client{api: &fakeObjectAPI{statErr: errors.New("stat-fail")}, bucket: "keys"}
		ok, err := c.Exists(ctx, "authorized_keys/ben")
		require.Error(t, err)
		assert.False(t, ok)
	})
}
