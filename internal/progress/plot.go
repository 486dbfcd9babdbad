package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/quillbase/quill/internal/history"
)

const (
	chartWidth  = "900px"
	chartHeight = "500px"
)

// buildChart turns the word-count timeline into a bar chart.
func buildChart(entries []history.WordCountHistoryEntry) *charts.Bar {
	labels := make([]string, len(entries))
	data := make([]opts.BarData, len(entries))

	for i, entry := range entries {
		labels[i] = entry.Date.Format(time.DateOnly)
		data[i] = opts.BarData{Value: entry.WordCount}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Manuscript word count"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Words"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("words", data)

	return bar
}

// WriteHTML writes an HTML chart of the timeline to path. Empty history
// still produces a page; the chart simply has no bars.
func WriteHTML(entries []history.WordCountHistoryEntry, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer file.Close()

	err = buildChart(entries).Render(file)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
