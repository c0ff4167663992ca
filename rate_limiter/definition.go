package rate_limiter

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
)

// Definition is the configuration of an APILimiter, decoded from a `rate_limit` block
type Definition struct {
	// requests per second
	FillRate   float64 `hcl:"fill_rate,optional"`
	BucketSize int     `hcl:"bucket_size,optional"`
	// the max concurrency supported
	MaxConcurrency int64 `hcl:"max_concurrency,optional"`
}

func (d *Definition) String() string {
	var parts []string
	if d.FillRate > 0 {
		parts = append(parts, fmt.Sprintf("Limit(/s): %v, Burst: %d", rate.Limit(d.FillRate), d.BucketSize))
	}
	if d.MaxConcurrency > 0 {
		parts = append(parts, fmt.Sprintf("MaxConcurrency: %d", d.MaxConcurrency))
	}
	return strings.Join(parts, " ")
}

func (d *Definition) Validate() error {
	var validationErrors []error
	if d.FillRate < 0 || d.BucketSize < 0 || d.MaxConcurrency < 0 {
		validationErrors = append(validationErrors, errors.New("rate limit values must not be negative"))
	}
	if d.FillRate > 0 && d.BucketSize == 0 {
		validationErrors = append(validationErrors, errors.New("rate limit with a fill_rate must set bucket_size"))
	}
	if d.FillRate == 0 && d.MaxConcurrency == 0 {
		validationErrors = append(validationErrors, errors.New("rate limit must define either fill_rate or max_concurrency"))
	}
	return errors.Join(validationErrors...)
}
