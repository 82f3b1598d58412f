// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
)

type fakeObject struct {
	body []byte
	eTag string
}

// fakeS3 is an in-memory bucket implementing s3API.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	failAll error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]fakeObject{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	key := aws.ToString(in.Key)
	if in.IfMatch != nil {
		current, ok := f.objects[key]
		if !ok {
			return nil, &types.NoSuchKey{}
		}
		if current.eTag != aws.ToString(in.IfMatch) {
			return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}
		}
	}

	body, _ := io.ReadAll(in.Body)
	obj := fakeObject{body: body, eTag: `"` + utils.ContentETag(body) + `"`}
	f.objects[key] = obj
	return &s3.PutObjectOutput{ETag: aws.String(obj.eTag)}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.body)), ETag: aws.String(obj.eTag)}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ETag: aws.String(obj.eTag)}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for key, obj := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key), ETag: aws.String(obj.eTag)})
		}
	}
	return out, nil
}

func newTestS3Remote() (*s3RemoteStore, *fakeS3) {
	fake := newFakeS3()
	return newS3RemoteStore(fake, "bucket", logger.Nop()), fake
}

func TestS3Remote_UploadDownload(t *testing.T) {
	r, fake := newTestS3Remote()
	ctx := context.Background()

	tag, err := r.Upload(ctx, "/sync/links/a.json", []byte(`{"version":1}`), "")
	require.NoError(t, err)
	assert.Equal(t, utils.ContentETag([]byte(`{"version":1}`)), tag)
	assert.Contains(t, fake.objects, "sync/links/a.json")

	file, err := r.Download(ctx, "/sync/links/a.json")
	require.NoError(t, err)
	assert.Equal(t, tag, file.ETag)
	assert.Equal(t, []byte(`{"version":1}`), file.Body)

	_, err = r.Download(ctx, "/sync/links/missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Remote_ConditionalUpload(t *testing.T) {
	r, _ := newTestS3Remote()
	ctx := context.Background()

	tag, err := r.Upload(ctx, "/sync/links/a.json", []byte("v1"), "")
	require.NoError(t, err)

	_, err = r.Upload(ctx, "/sync/links/a.json", []byte("v2"), "stale")
	assert.ErrorIs(t, err, ErrContentConflict)

	_, err = r.Upload(ctx, "/sync/links/a.json", []byte("v2"), tag)
	assert.NoError(t, err)
}

func TestS3Remote_ListDirectory(t *testing.T) {
	r, _ := newTestS3Remote()
	ctx := context.Background()

	listing, err := r.ListDirectory(ctx, "/sync/links")
	require.NoError(t, err)
	assert.Empty(t, listing.ETag)
	assert.Empty(t, listing.Entries)

	tagA, _ := r.Upload(ctx, "/sync/links/a.json", []byte("a"), "")
	_, _ = r.Upload(ctx, "/sync/links/nested/b.json", []byte("b"), "")
	_, _ = r.Upload(ctx, "/sync/notes/c.json", []byte("c"), "")

	listing, err = r.ListDirectory(ctx, "/sync/links")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.json": tagA}, listing.Entries)
	assert.Equal(t, utils.DirectoryETag(listing.Entries), listing.ETag)

	dirTag, err := r.GetDirectoryTag(ctx, "sync/links/")
	require.NoError(t, err)
	assert.Equal(t, listing.ETag, dirTag)
}

func TestS3Remote_DeleteAndExists(t *testing.T) {
	r, _ := newTestS3Remote()
	ctx := context.Background()

	_, _ = r.Upload(ctx, "/sync/links/a.json", []byte("a"), "")

	ok, err := r.Exists(ctx, "/sync/links/a.json")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, r.Delete(ctx, "/sync/links/a.json"))
	require.NoError(t, r.Delete(ctx, "/sync/links/a.json"))

	ok, err = r.Exists(ctx, "/sync/links/a.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3Remote_TransportFailure(t *testing.T) {
	r, fake := newTestS3Remote()
	fake.failAll = errors.New("dial tcp: connection refused")
	ctx := context.Background()

	_, err := r.ListDirectory(ctx, "/sync/links")
	assert.ErrorIs(t, err, ErrTransport)

	_, err = r.Exists(ctx, "/sync/links/a.json")
	assert.ErrorIs(t, err, ErrTransport)

	assert.ErrorIs(t, r.Delete(ctx, "/sync/links/a.json"), ErrTransport)
}

func TestMapS3Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no such key", err: &types.NoSuchKey{}, want: ErrNotFound},
		{name: "head not found", err: &types.NotFound{}, want: ErrNotFound},
		{name: "api not found", err: &smithy.GenericAPIError{Code: "NotFound"}, want: ErrNotFound},
		{name: "precondition", err: &smithy.GenericAPIError{Code: "PreconditionFailed"}, want: ErrContentConflict},
		{name: "conditional conflict", err: &smithy.GenericAPIError{Code: "ConditionalRequestConflict"}, want: ErrContentConflict},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, want: ErrUnauthorized},
		{name: "throttling", err: &smithy.GenericAPIError{Code: "SlowDown"}, want: ErrTransport},
		{name: "plain", err: errors.New("boom"), want: ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapS3Error(tt.err), tt.want)
		})
	}

	assert.NoError(t, mapS3Error(nil))
}
