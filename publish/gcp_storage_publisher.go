package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"github.com/mitchellh/go-homedir"
	"google.golang.org/api/option"
)

// GcpStoragePublisher uploads artifacts to a GCP Cloud Storage bucket
type GcpStoragePublisher struct {
	bucket string
	prefix string
	client *storage.Client
}

func NewGcpStoragePublisher(ctx context.Context, c *Config) (*GcpStoragePublisher, error) {
	opts, err := gcpClientOptions(c)
	if err != nil {
		return nil, fmt.Errorf("failed setting GCP Storage client config: %w", err)
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP Storage client: %w", err)
	}

	return &GcpStoragePublisher{
		bucket: c.Bucket,
		prefix: c.Prefix,
		client: client,
	}, nil
}

func (p *GcpStoragePublisher) Identifier() string {
	return GcpStoragePublisherIdentifier
}

func (p *GcpStoragePublisher) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", localPath, err)
	}
	defer f.Close()

	key := objectKey(p.prefix, localPath)
	w := p.client.Bucket(p.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/vnd.apache.parquet"
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", localPath, p.bucket, err)
	}
	// the upload is only committed on Close
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", localPath, p.bucket, err)
	}

	dest := fmt.Sprintf("gs://%s/%s", p.bucket, key)
	slog.Info("Published artifact", "publisher", p.Identifier(), "destination", dest)
	return dest, nil
}

func (p *GcpStoragePublisher) Close() error {
	return p.client.Close()
}

func gcpClientOptions(c *Config) ([]option.ClientOption, error) {
	var opts []option.ClientOption

	if c.Credentials != nil {
		credentials, err := pathOrContents(*c.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
	}

	quotaProject := os.Getenv("GOOGLE_CLOUD_QUOTA_PROJECT")
	if c.QuotaProject != nil {
		quotaProject = *c.QuotaProject
	}
	if quotaProject != "" {
		opts = append(opts, option.WithQuotaProject(quotaProject))
	}

	if c.Endpoint != nil && *c.Endpoint != "" {
		// emulators do not authenticate
		opts = append(opts, option.WithEndpoint(*c.Endpoint), option.WithoutAuthentication())
	}
	return opts, nil
}

// pathOrContents returns the contents of the file at poc if it exists, otherwise poc itself
func pathOrContents(poc string) (string, error) {
	if len(poc) == 0 {
		return poc, nil
	}

	path, err := homedir.Expand(poc)
	if err != nil {
		return path, err
	}

	if _, err := os.Stat(path); err == nil {
		contents, err := os.ReadFile(path)
		if err != nil {
			return string(contents), err
		}
		return string(contents), nil
	}

	return poc, nil
}
