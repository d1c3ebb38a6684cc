package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testRoles() []*models.Role {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	used := testNow.Add(-10 * 24 * time.Hour)
	return []*models.Role{
		{
			Account:     &models.Account{Number: "123456789012"},
			Name:        "deployer",
			ARN:         "arn:aws:iam::123456789012:role/app/deployer",
			Path:        "/app/",
			CreatedDate: &created,
		},
		{
			Account:      &models.Account{Number: "123456789012"},
			Name:         "reader",
			ARN:          "arn:aws:iam::123456789012:role/reader",
			Path:         "/",
			LastUsedDate: &used,
			PermissionsBoundary: &models.PermissionsBoundary{
				Type: "PermissionsBoundaryPolicy",
				ARN:  "arn:aws:iam::123456789012:policy/boundaries/dev-cap",
			},
		},
	}
}

func TestRenderRoles_Table(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	err := renderRoles(&buf, testRoles(), tableOptions{
		output:  internal.OutputTable,
		now:     testNow,
		summary: "%d role(s) without a permissions boundary",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "LAST USED")
	assert.NotContains(t, out, "BOUNDARY")
	assert.Contains(t, out, "deployer")
	assert.Contains(t, out, "/app/")
	assert.Contains(t, out, "(10d)")
	assert.Contains(t, out, "2 role(s) without a permissions boundary")
}

func TestRenderRoles_ShowBoundary(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	err := renderRoles(&buf, testRoles(), tableOptions{
		output:       internal.OutputTable,
		now:          testNow,
		showBoundary: true,
		summary:      "%d role(s) matched",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "BOUNDARY")
	assert.Contains(t, buf.String(), "dev-cap")
}

func TestRenderRoles_Empty(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	require.NoError(t, renderRoles(&buf, []*models.Role{}, tableOptions{
		output: internal.OutputTable,
		empty:  "Every role has a permissions boundary.",
	}))
	assert.Equal(t, "✅ Every role has a permissions boundary.\n", buf.String())

	buf.Reset()
	require.NoError(t, renderRoles(&buf, []*models.Role{}, tableOptions{output: internal.OutputJSON}))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestRenderRoles_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderRoles(&buf, testRoles(), tableOptions{output: internal.OutputJSON}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "deployer", got[0]["name"])
	assert.NotContains(t, got[0], "permissions_boundary")
	assert.Contains(t, got[1], "permissions_boundary")
}

func TestRenderUsers_Table(t *testing.T) {
	noColor(t)
	users := []*models.User{
		{Name: "alice", Path: "/"},
		{Name: strings.Repeat("x", 60), Path: "/"},
	}
	var buf bytes.Buffer
	require.NoError(t, renderUsers(&buf, users, tableOptions{
		output:  internal.OutputTable,
		now:     testNow,
		summary: "%d user(s) without a permissions boundary",
	}))

	out := buf.String()
	assert.Contains(t, out, "PASSWORD LAST USED")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, strings.Repeat("x", 37)+"...")
	assert.Contains(t, out, "2 user(s) without a permissions boundary")
}

func TestBoundaryName(t *testing.T) {
	assert.Equal(t, internal.NeverUsed, boundaryName(nil))
	assert.Equal(t, "cap", boundaryName(&models.PermissionsBoundary{ARN: "arn:aws:iam::123456789012:policy/cap"}))
	assert.Equal(t, "odd", boundaryName(&models.PermissionsBoundary{ARN: "odd"}))
}

func TestLastUsed(t *testing.T) {
	assert.Equal(t, internal.NeverUsed, lastUsed(nil, testNow))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "abcdefg...", truncateText("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncateText(strings.Repeat("é", 20), 10))
}

func TestRolesHelp_ServiceLinkedPath(t *testing.T) {
	assert.Contains(t, rolesCmd.Long, "exactly /aws-service-role/")
	assert.Contains(t, rootCmd.Long, "exactly /aws-service-role/")
}
