package models

import "time"

type Role struct {
	Account             *Account             `json:"account"`
	Name                string               `json:"name"`
	ID                  string               `json:"id"`
	ARN                 string               `json:"arn"`
	Path                string               `json:"path"`
	Description         string               `json:"description,omitempty"`
	MaxSessionDuration  int32                `json:"max_session_duration"`
	CreatedDate         *time.Time           `json:"created_date,omitempty"`
	LastUsedDate        *time.Time           `json:"last_used_date,omitempty"`
	LastUsedRegion      string               `json:"last_used_region,omitempty"`
	PermissionsBoundary *PermissionsBoundary `json:"permissions_boundary,omitempty"`
	Tags                map[string]string    `json:"tags,omitempty"`
}

func (r *Role) HasPermissionsBoundary() bool {
	return r.PermissionsBoundary != nil
}

// IsServiceLinked reports whether the role sits on the service-linked path
func (r *Role) IsServiceLinked() bool {
	return r.Path == ServiceLinkedRolePath
}
