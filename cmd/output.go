package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/fatih/color"
)

type tableOptions struct {
	output       string
	now          time.Time
	showBoundary bool
	// empty is printed instead of a table when there is nothing to show
	empty string
	// summary is a Printf format taking the row count
	summary string
}

var (
	header  = color.New(color.FgCyan, color.Bold).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
)

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func renderRoles(w io.Writer, roles []*models.Role, opts tableOptions) error {
	if opts.output == internal.OutputJSON {
		return writeJSON(w, roles)
	}
	if len(roles) == 0 {
		fmt.Fprintln(w, success("✅ "+opts.empty))
		return nil
	}

	cols := []string{"NAME", "PATH", "CREATED", "LAST USED"}
	if opts.showBoundary {
		cols = append(cols, "BOUNDARY")
	}
	writeHeader(w, cols)
	for _, r := range roles {
		row := []string{
			truncateText(r.Name, 40),
			truncateText(r.Path, 24),
			internal.FormatTime(r.CreatedDate),
			lastUsed(r.LastUsedDate, opts.now),
		}
		if opts.showBoundary {
			row = append(row, boundaryName(r.PermissionsBoundary))
		}
		writeRow(w, row)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, warning(fmt.Sprintf(opts.summary, len(roles))))
	return nil
}

func renderUsers(w io.Writer, users []*models.User, opts tableOptions) error {
	if opts.output == internal.OutputJSON {
		return writeJSON(w, users)
	}
	if len(users) == 0 {
		fmt.Fprintln(w, success("✅ "+opts.empty))
		return nil
	}

	cols := []string{"NAME", "PATH", "CREATED", "PASSWORD LAST USED"}
	if opts.showBoundary {
		cols = append(cols, "BOUNDARY")
	}
	writeHeader(w, cols)
	for _, u := range users {
		row := []string{
			truncateText(u.Name, 40),
			truncateText(u.Path, 24),
			internal.FormatTime(u.CreatedDate),
			lastUsed(u.PasswordLastUsed, opts.now),
		}
		if opts.showBoundary {
			row = append(row, boundaryName(u.PermissionsBoundary))
		}
		writeRow(w, row)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, warning(fmt.Sprintf(opts.summary, len(users))))
	return nil
}

var columnWidths = []int{42, 26, 21, 28, 30}

func writeHeader(w io.Writer, cols []string) {
	total := 0
	for i, c := range cols {
		// pad before colouring so escape codes don't skew the widths
		fmt.Fprint(w, header(fmt.Sprintf("%-*s", columnWidths[i], c)))
		total += columnWidths[i]
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", total))
}

func writeRow(w io.Writer, row []string) {
	for i, v := range row {
		fmt.Fprintf(w, "%-*s", columnWidths[i], v)
	}
	fmt.Fprintln(w)
}

func lastUsed(t *time.Time, now time.Time) string {
	days := internal.DaysSince(t, now)
	if days < 0 {
		return internal.NeverUsed
	}
	return fmt.Sprintf("%s (%dd)", internal.FormatTime(t), days)
}

func boundaryName(b *models.PermissionsBoundary) string {
	if b == nil {
		return internal.NeverUsed
	}
	if i := strings.LastIndex(b.ARN, "/"); i >= 0 {
		return b.ARN[i+1:]
	}
	return b.ARN
}

func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return text
}
