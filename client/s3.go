// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 API used to copy objects.
type S3API interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 reads and writes whole objects.
type S3 struct {
	client S3API
}

// NewS3 creates an S3 client from the given AWS SDK config.
func NewS3(cfg *aws.Config) *S3 {
	return &S3{client: s3.NewFromConfig(*cfg)}
}

// Get returns the body of s3://bucket/key.
func (c *S3) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, fmt.Errorf("unable to get S3 object s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read S3 object s3://%s/%s: %w", bucket, key, err)
	}
	return body, nil
}

// Put writes body to s3://bucket/key, replacing any existing object.
func (c *S3) Put(ctx context.Context, bucket, key string, body []byte) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("unable to put S3 object s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}
