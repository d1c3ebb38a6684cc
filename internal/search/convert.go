package search

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/chukul/iamaudit/internal/models"
)

func newRole(account *models.Account, r *types.Role) *models.Role {
	role := &models.Role{
		Account:             account,
		Name:                aws.ToString(r.RoleName),
		ID:                  aws.ToString(r.RoleId),
		ARN:                 aws.ToString(r.Arn),
		Path:                aws.ToString(r.Path),
		Description:         aws.ToString(r.Description),
		MaxSessionDuration:  aws.ToInt32(r.MaxSessionDuration),
		CreatedDate:         r.CreateDate,
		PermissionsBoundary: newPermissionsBoundary(r.PermissionsBoundary),
		Tags:                tagMap(r.Tags),
	}
	if r.RoleLastUsed != nil {
		role.LastUsedDate = r.RoleLastUsed.LastUsedDate
		role.LastUsedRegion = aws.ToString(r.RoleLastUsed.Region)
	}
	return role
}

func newUser(account *models.Account, u *types.User) *models.User {
	return &models.User{
		Account:             account,
		Name:                aws.ToString(u.UserName),
		ID:                  aws.ToString(u.UserId),
		ARN:                 aws.ToString(u.Arn),
		Path:                aws.ToString(u.Path),
		CreatedDate:         u.CreateDate,
		PasswordLastUsed:    u.PasswordLastUsed,
		PermissionsBoundary: newPermissionsBoundary(u.PermissionsBoundary),
		Tags:                tagMap(u.Tags),
	}
}

// an attachment without an ARN is treated as no boundary
func newPermissionsBoundary(b *types.AttachedPermissionsBoundary) *models.PermissionsBoundary {
	if b == nil || aws.ToString(b.PermissionsBoundaryArn) == "" {
		return nil
	}
	return &models.PermissionsBoundary{
		Type: string(b.PermissionsBoundaryType),
		ARN:  aws.ToString(b.PermissionsBoundaryArn),
	}
}

func tagMap(tags []types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return m
}
