package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/audit"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/spf13/cobra"
)

// report is the combined result of both audits
type report struct {
	Account string         `json:"account"`
	Roles   []*models.Role `json:"roles"`
	Users   []*models.User `json:"users"`
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the role and user audits together",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := newSession(ctx)
		if err != nil {
			return err
		}

		rep, err := runTask("Auditing IAM roles and users...", func() (*report, error) {
			return runAll(ctx, sess, sess.CallerIdentity, audit.WithSearchOptions(searchOptions()...))
		})
		if err != nil {
			return err
		}

		if err := renderReport(cmd.OutOrStdout(), rep, settings.Output, time.Now()); err != nil {
			return err
		}
		return checkFindings(len(rep.Roles) + len(rep.Users))
	},
}

type identityFunc func(context.Context) (*internal.Identity, error)

func runAll(ctx context.Context, sess *internal.Session, whoami identityFunc, opt ...audit.Option) (*report, error) {
	id, err := whoami(ctx)
	if err != nil {
		return nil, err
	}

	ra, err := audit.NewRoleAudit(sess, opt...)
	if err != nil {
		return nil, err
	}
	roles, err := ra.RolesWithoutPermissionsBoundary(ctx)
	if err != nil {
		return nil, err
	}

	ua, err := audit.NewUserAudit(sess, opt...)
	if err != nil {
		return nil, err
	}
	users, err := ua.UsersWithoutPermissionsBoundary(ctx)
	if err != nil {
		return nil, err
	}

	return &report{Account: id.Account, Roles: roles, Users: users}, nil
}

func renderReport(w io.Writer, rep *report, output string, now time.Time) error {
	if output == internal.OutputJSON {
		return writeJSON(w, rep)
	}

	fmt.Fprintf(w, "🔎 Account %s\n\n", rep.Account)
	fmt.Fprintln(w, header("ROLES"))
	err := renderRoles(w, rep.Roles, tableOptions{
		output:  output,
		now:     now,
		empty:   "Every role has a permissions boundary.",
		summary: "⚠️  %d role(s) without a permissions boundary",
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, header("USERS"))
	return renderUsers(w, rep.Users, tableOptions{
		output:  output,
		now:     now,
		empty:   "Every user has a permissions boundary.",
		summary: "⚠️  %d user(s) without a permissions boundary",
	})
}

func init() {
	rootCmd.AddCommand(allCmd)
}
