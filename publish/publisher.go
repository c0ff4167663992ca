package publish

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
)

// Publisher copies a finished artifact to a destination outside the local data directory
type Publisher interface {
	Identifier() string
	// Publish uploads the file at localPath and returns the destination it was written to
	Publish(ctx context.Context, localPath string) (string, error)
	Close() error
}

// New returns the Publisher for the given config
func New(ctx context.Context, c *Config) (Publisher, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Type {
	case FileSystemPublisherIdentifier:
		return NewFileSystemPublisher(c), nil
	case AwsS3PublisherIdentifier:
		return NewAwsS3Publisher(ctx, c)
	case GcpStoragePublisherIdentifier:
		return NewGcpStoragePublisher(ctx, c)
	default:
		return nil, fmt.Errorf("unknown publisher type '%s'", c.Type)
	}
}

// objectKey returns the bucket key for a local file
func objectKey(prefix, localPath string) string {
	return path.Join(prefix, filepath.Base(localPath))
}
