package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/logmerge/internal/compare"
	"github.com/leapstack-labs/logmerge/internal/config"
	"github.com/leapstack-labs/logmerge/internal/ingest"
	"github.com/leapstack-labs/logmerge/internal/layout"
	"github.com/leapstack-labs/logmerge/internal/model"
)

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <layout.json>",
		Short: "Compare the tests of a saved layout",
		Long: `Load a saved layout, reattach its data files, and report each test's
time range plus the combined comparison range. The comparison mode and
gap come from the layout unless overridden by flags or config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			l, err := layout.LoadFile(args[0])
			if err != nil {
				return err
			}

			reader := ingest.NewReader(logger)
			attachErrs := layout.Reattach(l, reader, logger)

			mode := l.CompareMode
			gap := l.CompareGap
			if cmd.Root().PersistentFlags().Changed("compare-mode") {
				mode, err = model.ParseCompareMode(cfg.CompareMode)
				if err != nil {
					return err
				}
			}
			if cmd.Root().PersistentFlags().Changed("compare-gap") {
				gap = cfg.CompareGap
			}

			c := compare.NewComparer(mode, gap)
			if err := renderCompare(cmd.OutOrStdout(), c, l.Tests, cfg.Output); err != nil {
				return err
			}
			if len(attachErrs) > 0 {
				return fmt.Errorf("%d data files could not be reattached", len(attachErrs))
			}
			return nil
		},
	}
}

func renderCompare(w io.Writer, c *compare.Comparer, tests []*model.Test, format string) error {
	lo, hi := c.CombinedRange(tests)

	if format == "json" {
		type testRange struct {
			Name  string    `json:"name"`
			Files int       `json:"files"`
			Range []float64 `json:"range"`
		}
		out := struct {
			Mode          string      `json:"mode"`
			Gap           float64     `json:"gap"`
			Tests         []testRange `json:"tests"`
			CombinedRange []float64   `json:"combined_range"`
		}{
			Mode:          string(c.Mode),
			Gap:           c.Gap,
			CombinedRange: []float64{lo, hi},
		}
		for _, t := range tests {
			tLo, tHi := t.TimeRange()
			out.Tests = append(out.Tests, testRange{
				Name:  t.Name,
				Files: len(t.DataFiles),
				Range: []float64{tLo, tHi},
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	_, _ = fmt.Fprintf(w, "Comparing %d tests (%s, gap %g)\n", len(tests), c.Mode, c.Gap)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Test", "Files", "Time Range"})
	for _, t := range tests {
		tLo, tHi := t.TimeRange()
		tw.AppendRow(table.Row{t.Name, len(t.DataFiles), fmt.Sprintf("[%g, %g]", tLo, tHi)})
	}
	tw.AppendFooter(table.Row{"Combined", "", fmt.Sprintf("[%g, %g]", lo, hi)})
	tw.Render()
	return nil
}
