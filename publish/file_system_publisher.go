package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/turbot/brewery-pipeline/filepaths"
)

type FileSystemPublisher struct {
	directory string
}

func NewFileSystemPublisher(c *Config) *FileSystemPublisher {
	return &FileSystemPublisher{directory: c.Directory}
}

func (p *FileSystemPublisher) Identifier() string {
	return FileSystemPublisherIdentifier
}

func (p *FileSystemPublisher) Publish(_ context.Context, localPath string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", localPath, err)
	}
	defer src.Close()

	dest := filepath.Join(p.directory, filepath.Base(localPath))
	if _, err := filepaths.WriteFileAtomic(dest, func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	}); err != nil {
		return "", err
	}
	slog.Info("Published artifact", "publisher", p.Identifier(), "destination", dest)
	return dest, nil
}

func (p *FileSystemPublisher) Close() error {
	return nil
}
