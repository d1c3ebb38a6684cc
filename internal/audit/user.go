package audit

import (
	"context"

	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/chukul/iamaudit/internal/search"
)

// UserAudit reports users without a permissions boundary
type UserAudit struct {
	session     *internal.Session
	newSearcher UserSearcherFunc
}

// NewUserAudit returns an audit bound to sess, or ErrInvalidSession when sess is nil
func NewUserAudit(sess *internal.Session, opt ...Option) (*UserAudit, error) {
	if sess == nil {
		return nil, ErrInvalidSession
	}
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, err
	}
	return &UserAudit{
		session:     sess,
		newSearcher: opts.withUserSearcherFunc,
	}, nil
}

// Session returns the session the next audit call will use
func (a *UserAudit) Session() *internal.Session {
	return a.session
}

// SetSession replaces the session used by subsequent calls
func (a *UserAudit) SetSession(sess *internal.Session) error {
	if sess == nil {
		return ErrInvalidSession
	}
	a.session = sess
	return nil
}

// UsersWithoutPermissionsBoundary returns every user that has no
// permissions boundary, in search order.
func (a *UserAudit) UsersWithoutPermissionsBoundary(ctx context.Context) ([]*models.User, error) {
	s, err := a.newSearcher(a.session)
	if err != nil {
		return nil, err
	}
	users, err := s.Search(ctx, search.Spec{})
	if err != nil {
		return nil, err
	}

	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		if !u.HasPermissionsBoundary() {
			out = append(out, u)
		}
	}
	return out, nil
}
