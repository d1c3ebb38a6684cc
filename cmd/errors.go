package cmd

import (
	"errors"

	"github.com/aws/smithy-go"
)

// describeError adds a hint for the AWS error codes users hit most
func describeError(err error) string {
	msg := err.Error()

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return msg
	}

	var hint string
	switch apiErr.ErrorCode() {
	case "AccessDenied", "AccessDeniedException":
		hint = "the session needs iam:ListRoles, iam:GetRole, iam:ListUsers, iam:GetUser and sts:GetCallerIdentity"
	case "ExpiredToken", "ExpiredTokenException", "InvalidClientTokenId", "RequestExpired":
		hint = "the credentials have expired, log in again or pick another --profile"
	case "Throttling", "ThrottlingException":
		hint = "IAM is throttling requests, retry with a lower --concurrency"
	}
	if hint == "" {
		return msg
	}
	return msg + "\n💡 " + hint
}
