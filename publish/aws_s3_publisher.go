package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	typehelpers "github.com/turbot/go-kit/types"
)

const defaultBucketRegion = "us-east-1"

// AwsS3Publisher uploads artifacts to an S3 bucket (or any S3 compatible endpoint)
type AwsS3Publisher struct {
	bucket string
	prefix string
	client *s3.Client
}

func NewAwsS3Publisher(ctx context.Context, c *Config) (*AwsS3Publisher, error) {
	client, err := getS3Client(ctx, c)
	if err != nil {
		return nil, err
	}
	return &AwsS3Publisher{
		bucket: c.Bucket,
		prefix: c.Prefix,
		client: client,
	}, nil
}

func (p *AwsS3Publisher) Identifier() string {
	return AwsS3PublisherIdentifier
}

func (p *AwsS3Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", localPath, err)
	}
	defer f.Close()

	key := objectKey(p.prefix, localPath)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/vnd.apache.parquet"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", localPath, p.bucket, err)
	}

	dest := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	slog.Info("Published artifact", "publisher", p.Identifier(), "destination", dest)
	return dest, nil
}

func (p *AwsS3Publisher) Close() error {
	return nil
}

func getS3Client(ctx context.Context, c *Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	// add credentials if provided, otherwise fall back to the default chain
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, c.SessionToken)))
	}

	region := typehelpers.SafeString(c.Region)
	if region == "" {
		slog.Info("No region set, using default", "region", defaultBucketRegion)
		region = defaultBucketRegion
	}
	opts = append(opts, config.WithRegion(region))

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := typehelpers.SafeString(c.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}
