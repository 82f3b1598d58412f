// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

// s3API is the part of *s3.Client used by the S3 remote.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// s3RemoteStore keeps every remote document as an object keyed by its path
// without the leading slash. S3 has no directory tags, so the tag of a
// directory is derived from the object tags found under its prefix.
type s3RemoteStore struct {
	client s3API
	bucket string

	logger *logger.Logger
}

// NewS3RemoteStore constructs the S3 implementation of [RemoteStore]. Static
// credentials are used when an access key is configured, the default AWS
// credential chain otherwise. A custom endpoint switches to path-style
// addressing for S3-compatible stores.
func NewS3RemoteStore(ctx context.Context, cfg config.ClientAdapter, logger *logger.Logger) (RemoteStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMaxAttempts(cfg.RetryCount + 1),
	}
	if cfg.S3.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3.Region))
	}
	if cfg.S3.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3RemoteStore(client, cfg.S3.Bucket, logger), nil
}

func newS3RemoteStore(client s3API, bucket string, logger *logger.Logger) *s3RemoteStore {
	return &s3RemoteStore{client: client, bucket: bucket, logger: logger}
}

// ListDirectory implements [RemoteStore]. Only direct children are listed.
func (s *s3RemoteStore) ListDirectory(ctx context.Context, dir string) (models.DirectoryListing, error) {
	prefix := objectPrefix(dir)
	entries := make(map[string]string)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.logger.Err(err).Str("func", "s3RemoteStore.ListDirectory").Str("dir", dir).Msg("list objects failed")
			return models.DirectoryListing{}, mapS3Error(err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			entries[name] = unquoteETag(aws.ToString(obj.ETag))
		}
	}

	if len(entries) == 0 {
		return models.DirectoryListing{Entries: entries}, nil
	}
	return models.DirectoryListing{ETag: utils.DirectoryETag(entries), Entries: entries}, nil
}

// GetDirectoryTag implements [RemoteStore]. It needs a full listing.
func (s *s3RemoteStore) GetDirectoryTag(ctx context.Context, dir string) (string, error) {
	listing, err := s.ListDirectory(ctx, dir)
	if err != nil {
		return "", err
	}
	return listing.ETag, nil
}

// Download implements [RemoteStore].
func (s *s3RemoteStore) Download(ctx context.Context, filePath string) (models.RemoteFile, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(filePath)),
	})
	if err != nil {
		return models.RemoteFile{}, mapS3Error(err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return models.RemoteFile{}, fmt.Errorf("%w: read %s: %w", ErrTransport, filePath, err)
	}

	return models.RemoteFile{
		Path: filePath,
		Body: body,
		ETag: unquoteETag(aws.ToString(out.ETag)),
	}, nil
}

// Upload implements [RemoteStore] using S3 conditional writes for ifMatch.
func (s *s3RemoteStore) Upload(ctx context.Context, filePath string, body []byte, ifMatch string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey(filePath)),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	}
	if ifMatch != "" {
		input.IfMatch = aws.String(quoteETag(ifMatch))
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		s.logger.Err(err).Str("func", "s3RemoteStore.Upload").Str("path", filePath).Msg("put object failed")
		return "", mapS3Error(err)
	}

	eTag := unquoteETag(aws.ToString(out.ETag))
	if eTag == "" {
		return "", fmt.Errorf("%w: upload %s: response without ETag", ErrTransport, filePath)
	}
	return eTag, nil
}

// Delete implements [RemoteStore]. S3 deletes are idempotent.
func (s *s3RemoteStore) Delete(ctx context.Context, filePath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(filePath)),
	})
	if err = mapS3Error(err); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// Exists implements [RemoteStore] with HeadObject.
func (s *s3RemoteStore) Exists(ctx context.Context, filePath string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(filePath)),
	})
	if err = mapS3Error(err); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func objectKey(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func objectPrefix(dir string) string {
	key := objectKey(dir)
	if key == "" {
		return ""
	}
	return key + "/"
}
