package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/chukul/iamaudit/internal"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// errFindings makes the process exit with status 2 under --fail-on-findings
var errFindings = errors.New("entities without a permissions boundary found")

var (
	flags    globalFlags
	settings = internal.DefaultConfig()
	logger   = hclog.NewNullLogger()
)

func printLogo() {
	// Gradient colors (Blue -> Purple -> Pink)
	lines := []string{
		`  ╻┏━┓┏┳┓┏━┓╻ ╻╺┳┓╻╺┳╸`,
		`  ┃┣━┫┃┃┃┣━┫┃ ┃ ┃┃┃ ┃ `,
		`  ╹╹ ╹╹ ╹╹ ╹┗━┛╺┻┛╹ ╹ `,
	}

	fmt.Println()
	for _, line := range lines {
		fmt.Println(gradient(line))
	}
	fmt.Println("\x1b[1m  Find IAM roles and users without a permissions boundary\x1b[0m")
	fmt.Println()
}

func gradient(line string) string {
	runes := []rune(line)
	out := ""
	for i, char := range runes {
		ratio := float64(i) / float64(len(runes))

		var r, g, b int
		if ratio < 0.5 {
			// Blue to Purple
			subRatio := ratio * 2
			r = int(170 * subRatio)
			g = int(176 * (1 - subRatio))
			b = 255
		} else {
			// Purple to Pink
			subRatio := (ratio - 0.5) * 2
			r = int(170*(1-subRatio) + 255*subRatio)
			g = 0
			b = int(255*(1-subRatio) + 128*subRatio)
		}
		out += fmt.Sprintf("\x1b[38;2;%d;%d;%dm%c\x1b[0m", r, g, b, char)
	}
	return out
}

var rootCmd = &cobra.Command{
	Use:   "iamaudit",
	Short: "iamaudit finds IAM roles and users without a permissions boundary",
	Long: `iamaudit enumerates the IAM roles and users of the account behind an AWS profile
and reports every entity that has no permissions boundary attached.
Roles whose path is exactly /aws-service-role/ are treated as service-linked
and skipped.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(flags.config)
		if err != nil {
			return err
		}
		if err := flags.apply(cfg, cmd.Flags()); err != nil {
			return err
		}
		settings = cfg
		logger = newLogger(flags.debug)
		return nil
	},
}

func init() {
	flags.bind(rootCmd.PersistentFlags())
}

// Execute runs the CLI
func Execute() {
	if len(os.Args) <= 1 || os.Args[1] == "help" {
		printLogo()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errFindings):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "❌", describeError(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) hclog.Logger {
	level := hclog.Warn
	if debug {
		level = hclog.Debug
	}
	if os.Getenv("IAMAUDIT_TRACE") != "" {
		level = hclog.Trace
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "iamaudit",
		Level:  level,
		Output: os.Stderr,
	})
}
