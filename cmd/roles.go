package cmd

import (
	"time"

	"github.com/chukul/iamaudit/internal/audit"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List IAM roles without a permissions boundary",
	Long: `List every IAM role in the account that has no permissions boundary.
Roles whose path is exactly /aws-service-role/ are skipped; roles under
/aws-service-role/<service>/ are still reported.`,
	Example: `  # Audit with a named profile
  iamaudit roles --profile prod-readonly

  # Assume an audit role and fail a pipeline on findings
  iamaudit roles --role arn:aws:iam::123456789012:role/SecurityAudit --json --fail-on-findings`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := newSession(ctx)
		if err != nil {
			return err
		}

		ra, err := audit.NewRoleAudit(sess, audit.WithSearchOptions(searchOptions()...))
		if err != nil {
			return err
		}

		roles, err := runTask("Auditing IAM roles...", func() ([]*models.Role, error) {
			return ra.RolesWithoutPermissionsBoundary(ctx)
		})
		if err != nil {
			return err
		}

		err = renderRoles(cmd.OutOrStdout(), roles, tableOptions{
			output:  settings.Output,
			now:     time.Now(),
			empty:   "Every role has a permissions boundary.",
			summary: "⚠️  %d role(s) without a permissions boundary",
		})
		if err != nil {
			return err
		}
		return checkFindings(len(roles))
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}
