package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/models"
)

// Roles searches the IAM roles visible to a session
type Roles struct {
	searcher
}

func NewRoles(sess *internal.Session, opt ...Option) (*Roles, error) {
	s, err := newSearcher(sess, opt...)
	if err != nil {
		return nil, err
	}
	return &Roles{searcher: s}, nil
}

// Search returns the roles matching spec in the order IAM lists them. Any
// AWS error aborts the search; partial results are never returned.
func (r *Roles) Search(ctx context.Context, spec Spec) ([]*models.Role, error) {
	match, err := spec.matcher()
	if err != nil {
		return nil, err
	}

	id, err := internal.GetCallerIdentity(ctx, r.sts)
	if err != nil {
		return nil, err
	}
	account := &models.Account{Number: id.Account}

	names, err := r.listNames(ctx, spec)
	if err != nil {
		return nil, err
	}

	roles, err := hydrate(ctx, names, r.concurrency, func(ctx context.Context, name string) (*models.Role, error) {
		out, err := r.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
		var gone *types.NoSuchEntityException
		if errors.As(err, &gone) {
			// deleted since it was listed
			r.logger.Debug("skipping vanished role", "role", name)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get role %s: %w", name, err)
		}
		if out.Role == nil {
			return nil, fmt.Errorf("get role %s returned no role", name)
		}
		return newRole(account, out.Role), nil
	})
	if err != nil {
		return nil, err
	}

	found := keep(roles, match)
	r.logger.Debug("role search complete", "account", account.Number, "listed", len(names), "matched", len(found))
	return found, nil
}

func (r *Roles) listNames(ctx context.Context, spec Spec) ([]string, error) {
	input := &iam.ListRolesInput{}
	if spec.PathPrefix != "" {
		input.PathPrefix = aws.String(spec.PathPrefix)
	}

	var names []string
	p := iam.NewListRolesPaginator(r.iam, input)
	for page := 1; p.HasMorePages(); page++ {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list roles: %w", err)
		}
		r.logger.Trace("listed roles page", "page", page, "count", len(out.Roles))
		for _, role := range out.Roles {
			name := aws.ToString(role.RoleName)
			if spec.Name != "" && name != spec.Name {
				continue
			}
			names = append(names, name)
		}
	}
	return names, nil
}
