// Package audit finds IAM roles and users that have no permissions boundary.
//
// Enumeration is delegated to the search package; this package owns only the
// compliance rule. Every call re-queries IAM, nothing is cached, and search
// errors are returned exactly as the searcher produced them.
package audit

import (
	"context"
	"errors"

	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/chukul/iamaudit/internal/search"
)

// ErrInvalidSession is returned when an audit is given a nil session
var ErrInvalidSession = errors.New("audit: session must not be nil")

// RoleSearcher enumerates roles matching a spec
type RoleSearcher interface {
	Search(ctx context.Context, spec search.Spec) ([]*models.Role, error)
}

// UserSearcher enumerates users matching a spec
type UserSearcher interface {
	Search(ctx context.Context, spec search.Spec) ([]*models.User, error)
}

// RoleSearcherFunc builds a RoleSearcher bound to a session
type RoleSearcherFunc func(*internal.Session) (RoleSearcher, error)

// UserSearcherFunc builds a UserSearcher bound to a session
type UserSearcherFunc func(*internal.Session) (UserSearcher, error)

type options struct {
	withRoleSearcherFunc RoleSearcherFunc
	withUserSearcherFunc UserSearcherFunc
	withSearchOptions    []search.Option
}

// Option - how options are passed as args
type Option func(*options) error

func getOpts(opt ...Option) (options, error) {
	var opts options
	for _, o := range opt {
		if err := o(&opts); err != nil {
			return opts, err
		}
	}
	if opts.withRoleSearcherFunc == nil {
		so := opts.withSearchOptions
		opts.withRoleSearcherFunc = func(s *internal.Session) (RoleSearcher, error) {
			r, err := search.NewRoles(s, so...)
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	}
	if opts.withUserSearcherFunc == nil {
		so := opts.withSearchOptions
		opts.withUserSearcherFunc = func(s *internal.Session) (UserSearcher, error) {
			u, err := search.NewUsers(s, so...)
			if err != nil {
				return nil, err
			}
			return u, nil
		}
	}
	return opts, nil
}

// WithRoleSearcherFunc replaces the default search.Roles factory
func WithRoleSearcherFunc(fn RoleSearcherFunc) Option {
	return func(o *options) error {
		o.withRoleSearcherFunc = fn
		return nil
	}
}

// WithUserSearcherFunc replaces the default search.Users factory
func WithUserSearcherFunc(fn UserSearcherFunc) Option {
	return func(o *options) error {
		o.withUserSearcherFunc = fn
		return nil
	}
}

// WithSearchOptions passes options through to the default searchers
func WithSearchOptions(opt ...search.Option) Option {
	return func(o *options) error {
		o.withSearchOptions = append(o.withSearchOptions, opt...)
		return nil
	}
}
