package audit

import (
	"context"

	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/chukul/iamaudit/internal/search"
)

// RoleAudit reports roles without a permissions boundary
type RoleAudit struct {
	session     *internal.Session
	newSearcher RoleSearcherFunc
}

// NewRoleAudit returns an audit bound to sess, or ErrInvalidSession when sess is nil
func NewRoleAudit(sess *internal.Session, opt ...Option) (*RoleAudit, error) {
	if sess == nil {
		return nil, ErrInvalidSession
	}
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, err
	}
	return &RoleAudit{
		session:     sess,
		newSearcher: opts.withRoleSearcherFunc,
	}, nil
}

// Session returns the session the next audit call will use
func (a *RoleAudit) Session() *internal.Session {
	return a.session
}

// SetSession replaces the session used by subsequent calls
func (a *RoleAudit) SetSession(sess *internal.Session) error {
	if sess == nil {
		return ErrInvalidSession
	}
	a.session = sess
	return nil
}

// RolesWithoutPermissionsBoundary returns every role that has no permissions
// boundary and is not service-linked, in search order. Service-linked roles
// are scoped by AWS and cannot carry a boundary.
func (a *RoleAudit) RolesWithoutPermissionsBoundary(ctx context.Context) ([]*models.Role, error) {
	s, err := a.newSearcher(a.session)
	if err != nil {
		return nil, err
	}
	roles, err := s.Search(ctx, search.Spec{})
	if err != nil {
		return nil, err
	}

	out := make([]*models.Role, 0, len(roles))
	for _, r := range roles {
		if !r.HasPermissionsBoundary() && !r.IsServiceLinked() {
			out = append(out, r)
		}
	}
	return out, nil
}
