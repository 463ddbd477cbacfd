// Package storage archives tool outputs in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/developeraldawla/project-n8n/config"
)

var ErrInvalidConfig = errors.New("invalid storage configuration")

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver stores an execution output and returns its object key.
type Archiver interface {
	Archive(ctx context.Context, executionID string, output json.RawMessage) (string, error)
}

type S3Archiver struct {
	client putObjectAPI
	bucket string
	prefix string
}

func NewS3Archiver(ctx context.Context, cfg config.StorageConfig) (*S3Archiver, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle || cfg.Endpoint != ""
	})

	return newS3Archiver(client, cfg.Bucket, cfg.OutputPrefix), nil
}

func newS3Archiver(client putObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (a *S3Archiver) Archive(ctx context.Context, executionID string, output json.RawMessage) (string, error) {
	key := a.objectKey(executionID)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(output),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

func (a *S3Archiver) objectKey(executionID string) string {
	if a.prefix == "" {
		return executionID + ".json"
	}
	return path.Join(a.prefix, executionID+".json")
}

// NoopArchiver is used when no bucket is configured.
type NoopArchiver struct{}

func (NoopArchiver) Archive(context.Context, string, json.RawMessage) (string, error) {
	return "", nil
}
