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

// Users searches the IAM users visible to a session
type Users struct {
	searcher
}

func NewUsers(sess *internal.Session, opt ...Option) (*Users, error) {
	s, err := newSearcher(sess, opt...)
	if err != nil {
		return nil, err
	}
	return &Users{searcher: s}, nil
}

// Search returns the users matching spec in the order IAM lists them
func (u *Users) Search(ctx context.Context, spec Spec) ([]*models.User, error) {
	match, err := spec.matcher()
	if err != nil {
		return nil, err
	}

	id, err := internal.GetCallerIdentity(ctx, u.sts)
	if err != nil {
		return nil, err
	}
	account := &models.Account{Number: id.Account}

	names, err := u.listNames(ctx, spec)
	if err != nil {
		return nil, err
	}

	users, err := hydrate(ctx, names, u.concurrency, func(ctx context.Context, name string) (*models.User, error) {
		out, err := u.iam.GetUser(ctx, &iam.GetUserInput{UserName: aws.String(name)})
		var gone *types.NoSuchEntityException
		if errors.As(err, &gone) {
			// deleted since it was listed
			u.logger.Debug("skipping vanished user", "user", name)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get user %s: %w", name, err)
		}
		if out.User == nil {
			return nil, fmt.Errorf("get user %s returned no user", name)
		}
		return newUser(account, out.User), nil
	})
	if err != nil {
		return nil, err
	}

	found := keep(users, match)
	u.logger.Debug("user search complete", "account", account.Number, "listed", len(names), "matched", len(found))
	return found, nil
}

func (u *Users) listNames(ctx context.Context, spec Spec) ([]string, error) {
	input := &iam.ListUsersInput{}
	if spec.PathPrefix != "" {
		input.PathPrefix = aws.String(spec.PathPrefix)
	}

	var names []string
	p := iam.NewListUsersPaginator(u.iam, input)
	for page := 1; p.HasMorePages(); page++ {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		u.logger.Trace("listed users page", "page", page, "count", len(out.Users))
		for _, user := range out.Users {
			name := aws.ToString(user.UserName)
			if spec.Name != "" && name != spec.Name {
				continue
			}
			names = append(names, name)
		}
	}
	return names, nil
}
