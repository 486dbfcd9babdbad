package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillbase/quill/internal/progress"
)

// ProgressCommand holds the configuration for the progress command.
type ProgressCommand struct {
	days int
	html string
}

// NewProgressCommand creates the progress command.
func NewProgressCommand() *cobra.Command {
	pc := &ProgressCommand{}

	cobraCmd := &cobra.Command{
		Use:   "progress",
		Short: "Chart word count over the trailing window",
		Long: `Chart the manuscript's word count per day over the trailing window,
newest first. Day counts come from the most recent commit of each day;
commits without an encoded count chart as zero so interruptions stay
visible. With --html, also writes an interactive chart.`,
		Args: cobra.NoArgs,
		RunE: pc.run,
	}

	cobraCmd.Flags().IntVar(&pc.days, "days", 0, "trailing window in days (0 = config default)")
	cobraCmd.Flags().StringVar(&pc.html, "html", "", "write an HTML chart to this file")

	return cobraCmd
}

func (pc *ProgressCommand) run(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	days := pc.days
	if days <= 0 {
		days = e.cfg.Progress.Days
	}

	entries, err := e.reporter.WordCountHistory(days)
	if err != nil {
		return err
	}

	renderer := progress.NewRenderer(e.cfg.Progress.BarWidth)
	fmt.Println(renderer.Render(entries))

	if pc.html != "" {
		err = progress.WriteHTML(entries, pc.html)
		if err != nil {
			return err
		}

		success("Wrote chart to %s", pc.html)
	}

	return nil
}
