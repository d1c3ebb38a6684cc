package cmd

import (
	"time"

	"github.com/chukul/iamaudit/internal/audit"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List IAM users without a permissions boundary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := newSession(ctx)
		if err != nil {
			return err
		}

		ua, err := audit.NewUserAudit(sess, audit.WithSearchOptions(searchOptions()...))
		if err != nil {
			return err
		}

		users, err := runTask("Auditing IAM users...", func() ([]*models.User, error) {
			return ua.UsersWithoutPermissionsBoundary(ctx)
		})
		if err != nil {
			return err
		}

		err = renderUsers(cmd.OutOrStdout(), users, tableOptions{
			output:  settings.Output,
			now:     time.Now(),
			empty:   "Every user has a permissions boundary.",
			summary: "⚠️  %d user(s) without a permissions boundary",
		})
		if err != nil {
			return err
		}
		return checkFindings(len(users))
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
