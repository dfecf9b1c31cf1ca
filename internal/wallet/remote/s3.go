// Package remote publishes encrypted blobs (bundles, keychain exports) to an
// S3-compatible bucket and hands back a presigned download URL.
//
// Only ciphertext ever leaves the machine; the password travels separately.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/chaincode/internal/filex"
	"github.com/google/uuid"
)

// DefaultPresignValidity is used when Config.PresignValidity is zero.
const DefaultPresignValidity = 15 * time.Minute

// maxFetchSize caps a downloaded blob.
const maxFetchSize = 64 << 20

// ErrDisabled is returned by New when no bucket is configured.
var ErrDisabled = errors.New("remote drop is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectAPI is the subset of *s3.Client used by S3Drop.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// PresignAPI is the subset of *s3.PresignClient used by S3Drop.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Config holds the bucket settings.
type Config struct {
	Bucket          string
	Region          string
	BaseEndpoint    string
	AccessKey       string
	SecretKey       string
	PresignValidity time.Duration
}

// S3Drop uploads and downloads blobs in one bucket.
type S3Drop struct {
	bucket   string
	validity time.Duration
	objects  ObjectAPI
	presign  PresignAPI
	now      func() time.Time
}

// New builds an S3Drop from cfg. Static credentials are used when AccessKey is
// set, otherwise the default AWS credential chain applies. A BaseEndpoint
// switches to path-style addressing for MinIO and similar servers.
func New(ctx context.Context, cfg Config) (*S3Drop, error) {
	if cfg.Bucket == "" {
		return nil, ErrDisabled
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithClients(cfg.Bucket, cfg.PresignValidity, client, s3.NewPresignClient(client)), nil
}

// NewWithClients assembles an S3Drop from already built clients.
func NewWithClients(bucket string, validity time.Duration, objects ObjectAPI, presign PresignAPI) *S3Drop {
	if validity <= 0 {
		validity = DefaultPresignValidity
	}
	return &S3Drop{
		bucket:   bucket,
		validity: validity,
		objects:  objects,
		presign:  presign,
		now:      time.Now,
	}
}

func (d *S3Drop) objectKey(name string) string {
	t := d.now().UTC()
	return fmt.Sprintf("chaincode/%d/%02d/%02d/%s-%s", t.Year(), t.Month(), t.Day(), uuid.NewString(), filex.SanitizeName(name))
}

// Publish uploads blob under a fresh key derived from name and returns the
// key together with a presigned GET URL.
func (d *S3Drop) Publish(ctx context.Context, name string, blob []byte) (string, string, error) {
	key := d.objectKey(name)

	_, err := d.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(blob),
		ContentLength: aws.Int64(int64(len(blob))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		return "", "", fmt.Errorf("put object %s: %w", key, err)
	}

	req, err := d.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(d.validity))
	if err != nil {
		return "", "", fmt.Errorf("presign get %s: %w", key, err)
	}

	return key, req.URL, nil
}

// Fetch downloads the blob stored under key.
func (d *S3Drop) Fetch(ctx context.Context, key string) ([]byte, error) {
	out, err := d.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	if len(data) > maxFetchSize {
		return nil, fmt.Errorf("object %s exceeds %d bytes", key, maxFetchSize)
	}
	return data, nil
}
