package search

import (
	"fmt"

	"github.com/chukul/iamaudit/internal"
	"github.com/hashicorp/go-hclog"
)

type options struct {
	withIAMClient   IAMClient
	withSTSClient   internal.CallerIdentityAPI
	withLogger      hclog.Logger
	withConcurrency int
}

// Option - how options are passed as args
type Option func(*options) error

func getDefaultOptions() options {
	return options{
		withLogger:      hclog.NewNullLogger(),
		withConcurrency: internal.DefaultConcurrency,
	}
}

func getOpts(opt ...Option) (options, error) {
	opts := getDefaultOptions()

	for _, o := range opt {
		if err := o(&opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// WithIAMClient replaces the IAM client built from the session
func WithIAMClient(c IAMClient) Option {
	return func(o *options) error {
		o.withIAMClient = c
		return nil
	}
}

// WithSTSClient replaces the STS client used to resolve the account number
func WithSTSClient(c internal.CallerIdentityAPI) Option {
	return func(o *options) error {
		o.withSTSClient = c
		return nil
	}
}

// WithLogger provides a logger for page and hydration diagnostics
func WithLogger(l hclog.Logger) Option {
	return func(o *options) error {
		if l != nil {
			o.withLogger = l
		}
		return nil
	}
}

// WithConcurrency bounds the number of GetRole/GetUser calls in flight
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		o.withConcurrency = n
		return nil
	}
}
