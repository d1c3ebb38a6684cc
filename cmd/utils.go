package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/search"
	"github.com/chukul/iamaudit/internal/ui"
	"golang.org/x/term"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// newSession builds the session every command audits with. The MFA code is
// read before the spinner starts so the two terminal programs never overlap.
func newSession(ctx context.Context) (*internal.Session, error) {
	opts := settings.SessionOptions()
	if opts.MfaSerial != "" {
		code, err := readMFACode(opts.MfaSerial)
		if err != nil {
			return nil, err
		}
		opts.TokenCode = func() (string, error) { return code, nil }
	}

	logger.Debug("loading session", "profile", opts.Profile, "region", opts.Region, "role", opts.RoleArn)
	return runTask("Authenticating...", func() (*internal.Session, error) {
		return internal.NewSession(ctx, opts)
	})
}

func readMFACode(serial string) (string, error) {
	if !isTerminal(os.Stdin) {
		return "", errors.New("an MFA code is required but stdin is not a terminal")
	}
	code, err := ui.MFACode(serial)
	if err != nil {
		return "", err
	}
	if code == "" {
		return "", errors.New("empty MFA code")
	}
	return code, nil
}

func searchOptions() []search.Option {
	return []search.Option{
		search.WithLogger(logger.Named("search")),
		search.WithConcurrency(settings.Concurrency),
	}
}

// runTask shows a spinner while task runs, unless stderr is not a terminal
// or debug logs would interleave with it
func runTask[T any](text string, task func() (T, error)) (T, error) {
	if flags.debug || !isTerminal(os.Stderr) {
		return task()
	}
	return ui.Spin(text, task)
}

func checkFindings(n int) error {
	if flags.failOnFindings && n > 0 {
		return errFindings
	}
	return nil
}
