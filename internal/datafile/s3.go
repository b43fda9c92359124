package datafile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 probes an S3-compatible backend (AWS S3 or MinIO) with HeadObject.
// Single bucket; the document directory context and filename join into the
// object key.
type S3 struct {
	client *s3.Client
	bucket string
}

// S3Config holds explicit construction parameters (mostly for tests). For
// prod we rely primarily on environment variables.
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; if set enables custom endpoint (e.g. MinIO)
	PathStyle bool
}

// Environment variables:
//   STUDYCORE_DATAFILE_DRIVER=s3
//   STUDYCORE_DATAFILE_S3_BUCKET=<bucket> (required)
//   STUDYCORE_DATAFILE_S3_REGION=<region> (default us-east-1)
//   STUDYCORE_DATAFILE_S3_ENDPOINT=<url> (optional, for MinIO)
//   STUDYCORE_DATAFILE_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// NewS3 creates an S3 prober from S3Config.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// OpenS3FromEnv constructs an S3 prober from process environment.
func OpenS3FromEnv(ctx context.Context) (*S3, error) {
	bucket := os.Getenv("STUDYCORE_DATAFILE_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("STUDYCORE_DATAFILE_S3_BUCKET required for s3 driver")
	}
	cfg := S3Config{
		Bucket:    bucket,
		Region:    os.Getenv("STUDYCORE_DATAFILE_S3_REGION"),
		Endpoint:  os.Getenv("STUDYCORE_DATAFILE_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("STUDYCORE_DATAFILE_S3_PATH_STYLE"), "true"),
	}
	return NewS3(ctx, cfg)
}

// Driver identifies the backend.
func (s *S3) Driver() Driver { return DriverS3 }

// Exists probes the object dir/name with HeadObject. A missing object is
// not an error.
func (s *S3) Exists(ctx context.Context, dir, name string) (bool, error) {
	clean, err := sanitizeName(name)
	if err != nil {
		return false, err
	}
	key := path.Join(dir, clean)
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
