package commands

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quillbase/quill/internal/history"
)

// shortHashLen is how much of the commit hash listings show.
const shortHashLen = 8

// HistoryCommand holds the configuration for the history command.
type HistoryCommand struct {
	limit int
	file  string
}

// NewHistoryCommand creates and configures the history command.
func NewHistoryCommand() *cobra.Command {
	hc := &HistoryCommand{}

	cobraCmd := &cobra.Command{
		Use:   "history",
		Short: "Show commit history with decoded word counts",
		Long: `Show recent manuscript history. Word counts are decoded from commit
messages where present; commits without an encoded count show a dash.

With --file, shows every commit that touched one file, following renames.`,
		Args: cobra.NoArgs,
		RunE: hc.run,
	}

	cobraCmd.Flags().IntVarP(&hc.limit, "limit", "n", 0, "number of commits to show (0 = config default)")
	cobraCmd.Flags().StringVar(&hc.file, "file", "", "show history for a single file")

	return cobraCmd
}

func (hc *HistoryCommand) run(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	limit := hc.limit
	if limit <= 0 {
		limit = e.cfg.Tracking.HistoryLimit
	}

	var records []history.CommitRecord

	if hc.file != "" {
		records, err = e.reporter.FileHistory(hc.file)
	} else {
		records, err = e.reporter.History(limit)
	}

	if err != nil {
		return err
	}

	if len(records) == 0 {
		note("No commits yet")

		return nil
	}

	renderHistory(records)

	return nil
}

// renderHistory prints records as a table, most recent first.
func renderHistory(records []history.CommitRecord) {
	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.AppendHeader(table.Row{"Commit", "Author", "When", "Words", "Message"})

	for _, rec := range records {
		words := "-"
		if rec.WordCount != nil {
			words = humanize.Comma(int64(*rec.WordCount))
		}

		writer.AppendRow(table.Row{
			rec.Hash[:shortHashLen],
			rec.Author,
			humanize.Time(rec.Timestamp),
			words,
			firstLine(rec.Message),
		})
	}

	writer.Render()
}

// firstLine trims a commit message to its subject line.
func firstLine(message string) string {
	for i, r := range message {
		if r == '\n' {
			return message[:i]
		}
	}

	return message
}
