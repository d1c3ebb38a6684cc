// Package models holds the IAM entity records returned by the search facade.
// Records are read-only once built.
package models

// ServiceLinkedRolePath is the path AWS reserves for service-linked roles
const ServiceLinkedRolePath = "/aws-service-role/"

// Account identifies the AWS account an entity belongs to
type Account struct {
	Number string `json:"number"`
}

// PermissionsBoundary is the managed policy capping an entity's permissions
type PermissionsBoundary struct {
	Type string `json:"type"`
	ARN  string `json:"arn"`
}
