// Package search enumerates IAM roles and users in the account behind a
// session and matches them against a declarative Spec.
//
// ListRoles and ListUsers do not return permissions boundaries or tags, so
// every listed entity is hydrated with GetRole or GetUser before matching.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/chukul/iamaudit/internal"
	"github.com/hashicorp/go-bexpr"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// ErrNilSession is returned when a searcher is built without a session
var ErrNilSession = errors.New("search: session is nil")

// IAMClient is the subset of the IAM API the searchers call
type IAMClient interface {
	iam.ListRolesAPIClient
	iam.ListUsersAPIClient
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	GetUser(ctx context.Context, params *iam.GetUserInput, optFns ...func(*iam.Options)) (*iam.GetUserOutput, error)
}

// Spec is a match specification. The zero value matches every entity.
type Spec struct {
	// Name matches the entity name exactly
	Name string
	// PathPrefix is passed to the list call, eg. "/app/"
	PathPrefix string
	// Filter is a bexpr expression over the record's json field names,
	// eg. `path != "/" and tags.team == "core"`
	Filter string
}

// IsEmpty reports whether the spec matches everything
func (s Spec) IsEmpty() bool {
	return s.Name == "" && s.PathPrefix == "" && s.Filter == ""
}

// matcher compiles the Filter. Records the expression cannot be evaluated
// against, eg. a selector naming a missing field, do not match.
func (s Spec) matcher() (func(any) bool, error) {
	if s.Filter == "" {
		return func(any) bool { return true }, nil
	}
	e, err := bexpr.CreateEvaluator(s.Filter, bexpr.WithTagName("json"))
	if err != nil {
		return nil, fmt.Errorf("couldn't build filter %q: %w", s.Filter, err)
	}
	return func(item any) bool {
		m, err := e.Evaluate(item)
		return err == nil && m
	}, nil
}

// searcher carries what Roles and Users have in common
type searcher struct {
	iam         IAMClient
	sts         internal.CallerIdentityAPI
	logger      hclog.Logger
	concurrency int
}

func newSearcher(sess *internal.Session, opt ...Option) (searcher, error) {
	if sess == nil {
		return searcher{}, ErrNilSession
	}
	opts, err := getOpts(opt...)
	if err != nil {
		return searcher{}, err
	}
	s := searcher{
		iam:         opts.withIAMClient,
		sts:         opts.withSTSClient,
		logger:      opts.withLogger,
		concurrency: opts.withConcurrency,
	}
	if s.iam == nil {
		s.iam = iam.NewFromConfig(sess.Config())
	}
	if s.sts == nil {
		s.sts = sts.NewFromConfig(sess.Config())
	}
	return s, nil
}

// hydrate calls get for every name with at most limit calls in flight. The
// result keeps the order of names; the first error cancels the rest.
func hydrate[T any](ctx context.Context, names []string, limit int, get func(context.Context, string) (T, error)) ([]T, error) {
	out := make([]T, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			v, err := get(gctx, name)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// keep returns the items accepted by match, in order. Nil items are
// dropped. Items are dereferenced so the filter sees the record's fields at
// the top level.
func keep[T any](items []*T, match func(any) bool) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if item != nil && match(*item) {
			out = append(out, item)
		}
	}
	return out
}
