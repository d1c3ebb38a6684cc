package models

import "time"

type User struct {
	Account             *Account             `json:"account"`
	Name                string               `json:"name"`
	ID                  string               `json:"id"`
	ARN                 string               `json:"arn"`
	Path                string               `json:"path"`
	CreatedDate         *time.Time           `json:"created_date,omitempty"`
	PasswordLastUsed    *time.Time           `json:"password_last_used,omitempty"`
	PermissionsBoundary *PermissionsBoundary `json:"permissions_boundary,omitempty"`
	Tags                map[string]string    `json:"tags,omitempty"`
}

func (u *User) HasPermissionsBoundary() bool {
	return u.PermissionsBoundary != nil
}
