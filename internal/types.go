package internal

import "github.com/aws/aws-sdk-go-v2/aws"

// Session is an authenticated AWS context for exactly one account and region.
// It is created by the caller and shared read-only with the audits.
type Session struct {
	profile string
	region  string
	roleArn string
	cfg     aws.Config
}

// SessionOptions describes how to build a Session
type SessionOptions struct {
	Profile     string
	Region      string
	RoleArn     string // Role to assume on top of the profile credentials
	SessionName string
	MfaSerial   string
	Duration    int32

	// TokenCode is asked for the MFA code when MfaSerial is set
	TokenCode func() (string, error)
}

// Identity is the result of sts:GetCallerIdentity
type Identity struct {
	Account string `json:"account"`
	Arn     string `json:"arn"`
	UserID  string `json:"user_id"`
}
