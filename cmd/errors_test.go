package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestDescribeError(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, "boom", describeError(plain))

	denied := fmt.Errorf("failed to list roles: %w", &smithy.GenericAPIError{
		Code:    "AccessDenied",
		Message: "not authorized to perform: iam:ListRoles",
	})
	msg := describeError(denied)
	assert.Contains(t, msg, "failed to list roles")
	assert.Contains(t, msg, "iam:ListRoles, iam:GetRole")

	expired := fmt.Errorf("failed to get caller identity: %w", &smithy.GenericAPIError{Code: "ExpiredToken"})
	assert.Contains(t, describeError(expired), "credentials have expired")

	other := &smithy.GenericAPIError{Code: "NoSuchEntity", Message: "gone"}
	assert.Equal(t, other.Error(), describeError(other))
}
