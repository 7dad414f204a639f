// Package storage persists uploaded files in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"standards-backend/internal/config"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
	Location    string `json:"location"`
}

// Uploader stores file contents. S3Uploader is the production implementation.
type Uploader interface {
	Put(ctx context.Context, folder, filename, contentType string, content io.Reader) (ObjectInfo, error)
}

type S3Uploader struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// NewS3Uploader builds a client for AWS or any S3-compatible endpoint
// (MinIO with path-style addressing, for local development).
func NewS3Uploader(ctx context.Context, env config.Env) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(env.S3Region),
	}
	if env.S3AccessKey != "" && env.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(env.S3AccessKey, env.S3SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if env.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(env.S3Endpoint)
		}
		if env.S3UsePathStyle {
			o.UsePathStyle = true
		}
	})
	return &S3Uploader{client: client, bucket: env.S3Bucket, endpoint: env.S3Endpoint}, nil
}

func (u *S3Uploader) Put(ctx context.Context, folder, filename, contentType string, content io.Reader) (ObjectInfo, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read content: %w", err)
	}
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	key := objectKey(folder, filename)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"checksum-sha256": checksum},
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return ObjectInfo{
		Bucket:      u.bucket,
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
		Checksum:    checksum,
		Location:    u.location(key),
	}, nil
}

func (u *S3Uploader) location(key string) string {
	if u.endpoint != "" {
		return strings.TrimSuffix(u.endpoint, "/") + "/" + u.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key)
}

// objectKey flattens path separators out of user-supplied parts so a crafted
// filename cannot escape its folder.
func objectKey(folder, filename string) string {
	clean := func(s string) string {
		s = strings.ReplaceAll(s, "\\", "/")
		s = path.Base(path.Clean("/" + s))
		if s == "/" || s == "." {
			return ""
		}
		return s
	}
	folder = clean(folder)
	filename = clean(filename)
	if folder == "" {
		return filename
	}
	return folder + "/" + filename
}
