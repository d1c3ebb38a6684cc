package cmd

import (
	"fmt"
	"io"

	"github.com/chukul/iamaudit/internal"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account and principal the audits will run as",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := newSession(ctx)
		if err != nil {
			return err
		}

		id, err := runTask("Resolving identity...", func() (*internal.Identity, error) {
			return sess.CallerIdentity(ctx)
		})
		if err != nil {
			return err
		}

		return renderIdentity(cmd.OutOrStdout(), id, sess, settings.Output)
	},
}

func renderIdentity(w io.Writer, id *internal.Identity, sess *internal.Session, output string) error {
	if output == internal.OutputJSON {
		return writeJSON(w, id)
	}

	profile := sess.Profile()
	if profile == "" {
		profile = "(default)"
	}
	fmt.Fprintf(w, "%s %s\n", header("Account:"), id.Account)
	fmt.Fprintf(w, "%s %s\n", header("ARN:    "), id.Arn)
	fmt.Fprintf(w, "%s %s\n", header("UserId: "), id.UserID)
	fmt.Fprintf(w, "%s %s\n", header("Profile:"), profile)
	if role := sess.RoleArn(); role != "" {
		fmt.Fprintf(w, "%s %s\n", header("Role:   "), role)
	}
	fmt.Fprintf(w, "%s %s\n", header("Region: "), sess.Region())
	return nil
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
