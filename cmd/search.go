package cmd

import (
	"fmt"
	"time"

	"github.com/chukul/iamaudit/internal/models"
	"github.com/chukul/iamaudit/internal/search"
	"github.com/spf13/cobra"
)

var (
	searchName       string
	searchPathPrefix string
	searchFilter     string
)

var searchCmd = &cobra.Command{
	Use:   "search <roles|users>",
	Short: "Search IAM roles or users with a filter expression",
	Long: `Search IAM roles or users, with or without a permissions boundary.

--filter takes a boolean expression over the JSON field names of the results,
for example 'path == "/app/"' or 'tags.team == "core" and name != "ci"'.`,
	Example: `  iamaudit search roles --path-prefix /app/
  iamaudit search users --filter 'tags.owner == "platform"' --json`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"roles", "users"},
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := search.Spec{
			Name:       searchName,
			PathPrefix: searchPathPrefix,
			Filter:     searchFilter,
		}

		ctx := cmd.Context()
		opts := tableOptions{
			output:       settings.Output,
			now:          time.Now(),
			showBoundary: true,
			empty:        "Nothing matched.",
		}

		switch args[0] {
		case "roles":
			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			s, err := search.NewRoles(sess, searchOptions()...)
			if err != nil {
				return err
			}
			roles, err := runTask("Searching IAM roles...", func() ([]*models.Role, error) {
				return s.Search(ctx, spec)
			})
			if err != nil {
				return err
			}
			opts.summary = searchSummary(spec, "role")
			return renderRoles(cmd.OutOrStdout(), roles, opts)

		case "users":
			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			s, err := search.NewUsers(sess, searchOptions()...)
			if err != nil {
				return err
			}
			users, err := runTask("Searching IAM users...", func() ([]*models.User, error) {
				return s.Search(ctx, spec)
			})
			if err != nil {
				return err
			}
			opts.summary = searchSummary(spec, "user")
			return renderUsers(cmd.OutOrStdout(), users, opts)

		default:
			return fmt.Errorf("unknown entity %q, expected roles or users", args[0])
		}
	},
}

// searchSummary is the Printf format for the row count line
func searchSummary(spec search.Spec, noun string) string {
	if spec.IsEmpty() {
		return "%d " + noun + "(s) in the account"
	}
	return "%d " + noun + "(s) matched"
}

func init() {
	searchCmd.Flags().StringVar(&searchName, "name", "", "Exact entity name")
	searchCmd.Flags().StringVar(&searchPathPrefix, "path-prefix", "", "Only entities under this IAM path, eg. /app/")
	searchCmd.Flags().StringVar(&searchFilter, "filter", "", "Filter expression over the result fields")
	rootCmd.AddCommand(searchCmd)
}
