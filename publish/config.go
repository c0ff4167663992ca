package publish

import (
	"errors"
	"fmt"
	"strings"
)

const (
	FileSystemPublisherIdentifier = "file_system"
	AwsS3PublisherIdentifier      = "aws_s3"
	GcpStoragePublisherIdentifier = "gcp_storage"
)

// Config is decoded from the `publish` block of the pipeline config
type Config struct {
	Type string `hcl:"type"`

	// file_system
	Directory string `hcl:"directory,optional"`

	// aws_s3 and gcp_storage
	Bucket   string  `hcl:"bucket,optional"`
	Prefix   string  `hcl:"prefix,optional"`
	Endpoint *string `hcl:"endpoint,optional"`

	// aws_s3
	Region       *string `hcl:"region,optional"`
	AccessKey    string  `hcl:"access_key,optional"`
	SecretKey    string  `hcl:"secret_key,optional"`
	SessionToken string  `hcl:"session_token,optional"`

	// gcp_storage: a path to, or the contents of, a service account key file
	Credentials  *string `hcl:"credentials,optional"`
	QuotaProject *string `hcl:"quota_project,optional"`
}

func (c *Config) Validate() error {
	var validationErrors []error
	switch c.Type {
	case FileSystemPublisherIdentifier:
		if c.Directory == "" {
			validationErrors = append(validationErrors, errors.New("publish: directory is required for file_system"))
		}
	case AwsS3PublisherIdentifier, GcpStoragePublisherIdentifier:
		if c.Bucket == "" {
			validationErrors = append(validationErrors, fmt.Errorf("publish: bucket is required for %s", c.Type))
		}
		if strings.HasPrefix(c.Prefix, "/") {
			validationErrors = append(validationErrors, errors.New("publish: prefix must not start with '/'"))
		}
	default:
		validationErrors = append(validationErrors, fmt.Errorf("publish: unknown type '%s', expected one of %s, %s, %s",
			c.Type, FileSystemPublisherIdentifier, AwsS3PublisherIdentifier, GcpStoragePublisherIdentifier))
	}
	return errors.Join(validationErrors...)
}
