package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/orin-ai/agentdash/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
}

// S3ConfigFromEnv reads the AWS_* variables. An empty Bucket means snapshot
// storage is disabled.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:         util.GetEnvString("AWS_REGION", "us-east-1"),
		Endpoint:       util.GetEnv("AWS_ENDPOINT"),
		PublicEndpoint: util.GetEnv("AWS_PUBLIC_ENDPOINT"),
		AccessKey:      util.GetEnv("AWS_ACCESS_KEY"),
		SecretKey:      util.GetEnv("AWS_SECRET_KEY"),
		Bucket:         util.GetEnv("AWS_BUCKET"),
	}
}

// S3 stores snapshots in one bucket.
type S3 struct {
	client *s3.Client
	cfg    S3Config
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(cfg.Endpoint))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &S3{client: client, cfg: cfg}, nil
}

func (s *S3) PutSnapshot(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot to S3: %w", err)
	}
	return nil
}

// DownloadLink presigns a GET for key. With AWS_PUBLIC_ENDPOINT set the
// link points there instead of the internal endpoint, keeping any path
// prefix of the public endpoint.
func (s *S3) DownloadLink(ctx context.Context, key string, expires time.Duration) (string, error) {
	client := s.client
	var prefix string

	if s.cfg.PublicEndpoint != "" {
		publicURL, err := url.Parse(s.cfg.PublicEndpoint)
		if err != nil || publicURL.Scheme == "" || publicURL.Host == "" {
			return "", fmt.Errorf("invalid AWS_PUBLIC_ENDPOINT: %s", s.cfg.PublicEndpoint)
		}
		prefix = strings.TrimSuffix(publicURL.Path, "/")

		// The signature covers the Host header, so sign against the public host.
		client = s3.NewFromConfig(
			aws.Config{
				Region:      s.client.Options().Region,
				Credentials: s.client.Options().Credentials,
				HTTPClient:  s.client.Options().HTTPClient,
			},
			func(o *s3.Options) {
				o.BaseEndpoint = aws.String(publicURL.Scheme + "://" + publicURL.Host)
				o.UsePathStyle = true
			},
		)
	}

	out, err := s3.NewPresignClient(client).PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(expires),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}
	return withPathPrefix(out.URL, prefix)
}

func withPathPrefix(raw, prefix string) (string, error) {
	if prefix == "" {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse presigned url: %w", err)
	}
	u.Path = prefix + u.Path
	return u.String(), nil
}

func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(prefix),
	}

	for {
		listOutput, err := s.client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}

		for _, obj := range listOutput.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}

		if listOutput.IsTruncated != nil && *listOutput.IsTruncated {
			listInput.ContinuationToken = listOutput.NextContinuationToken
		} else {
			break
		}
	}

	return keys, nil
}

var _ Snapshots = (*S3)(nil)
