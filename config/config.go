package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/robfig/cron/v3"
	"github.com/turbot/brewery-pipeline/constants"
	"github.com/turbot/brewery-pipeline/parse"
	"github.com/turbot/brewery-pipeline/publish"
	"github.com/turbot/brewery-pipeline/rate_limiter"
)

// PipelineConfig holds everything a stage needs to locate its input and output artifacts.
// Each stage receives the config explicitly; there is no process wide state.
type PipelineConfig struct {
	// the endpoint the raw snapshot is fetched from
	SourceURL string `hcl:"source_url,optional"`
	// destination of the raw snapshot
	RawPath string `hcl:"raw_path,optional"`
	// root of the silver partition tree
	SilverRoot string `hcl:"silver_root,optional"`
	// directory the gold artifact is written to
	GoldRoot string `hcl:"gold_root,optional"`

	// optional timeout for the fetch request, as a Go duration - zero means no timeout
	HttpTimeout string `hcl:"http_timeout,optional"`
	// cron spec used by the schedule command
	Schedule string `hcl:"schedule,optional"`

	RateLimit *rate_limiter.Definition `hcl:"rate_limit,block"`
	Publish   *publish.Config          `hcl:"publish,block"`

	httpTimeout time.Duration
}

var _ parse.Config = (*PipelineConfig)(nil)

// Default returns a config pointing at the standard data directory layout
func Default() *PipelineConfig {
	c := &PipelineConfig{}
	c.setDefaults()
	return c
}

// Load parses the HCL config file at path, or returns the default config if path is empty
func Load(path string) (*PipelineConfig, error) {
	if path == "" {
		return Default(), nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	c, err := parse.ParseConfigFile[PipelineConfig](expanded)
	if err != nil {
		return nil, err
	}
	if err := c.Init(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init applies defaults, expands paths and validates the config
func (c *PipelineConfig) Init() error {
	c.setDefaults()
	if err := c.expandPaths(); err != nil {
		return err
	}
	return c.Validate()
}

func (c *PipelineConfig) setDefaults() {
	if c.SourceURL == "" {
		c.SourceURL = constants.DefaultSourceURL
	}
	if c.RawPath == "" {
		c.RawPath = constants.DefaultRawPath
	}
	if c.SilverRoot == "" {
		c.SilverRoot = constants.DefaultSilverRoot
	}
	if c.GoldRoot == "" {
		c.GoldRoot = constants.DefaultGoldRoot
	}
	if c.Schedule == "" {
		c.Schedule = constants.DefaultSchedule
	}
}

func (c *PipelineConfig) expandPaths() error {
	for _, p := range []*string{&c.RawPath, &c.SilverRoot, &c.GoldRoot} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand path %s: %w", *p, err)
		}
		*p = expanded
	}
	if c.Publish != nil && c.Publish.Directory != "" {
		expanded, err := homedir.Expand(c.Publish.Directory)
		if err != nil {
			return fmt.Errorf("failed to expand path %s: %w", c.Publish.Directory, err)
		}
		c.Publish.Directory = expanded
	}
	return nil
}

func (c *PipelineConfig) Validate() error {
	var validationErrors []error

	u, err := url.Parse(c.SourceURL)
	if err != nil {
		validationErrors = append(validationErrors, fmt.Errorf("invalid source_url: %w", err))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		validationErrors = append(validationErrors, fmt.Errorf("invalid source_url '%s': expected an http or https URL", c.SourceURL))
	}

	if c.RawPath == "" {
		validationErrors = append(validationErrors, errors.New("raw_path must be set"))
	}
	if c.SilverRoot == "" {
		validationErrors = append(validationErrors, errors.New("silver_root must be set"))
	}
	if c.GoldRoot == "" {
		validationErrors = append(validationErrors, errors.New("gold_root must be set"))
	}

	if c.HttpTimeout != "" {
		d, err := time.ParseDuration(c.HttpTimeout)
		switch {
		case err != nil:
			validationErrors = append(validationErrors, fmt.Errorf("invalid http_timeout: %w", err))
		case d < 0:
			validationErrors = append(validationErrors, errors.New("http_timeout must not be negative"))
		default:
			c.httpTimeout = d
		}
	}

	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("invalid schedule: %w", err))
		}
	}

	if c.RateLimit != nil {
		if err := c.RateLimit.Validate(); err != nil {
			validationErrors = append(validationErrors, err)
		}
	}
	if c.Publish != nil {
		if err := c.Publish.Validate(); err != nil {
			validationErrors = append(validationErrors, err)
		}
	}

	return errors.Join(validationErrors...)
}

// GetHttpTimeout returns the parsed http_timeout, zero if unset
func (c *PipelineConfig) GetHttpTimeout() time.Duration {
	return c.httpTimeout
}
