package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/logmerge/internal/config"
	"github.com/leapstack-labs/logmerge/internal/ingest"
	"github.com/leapstack-labs/logmerge/internal/schema"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <base-file> <incoming-file>",
		Short: "Compare the headers of two data files",
		Long: `Compare the header sets of two files, treating the first as the
canonical schema. Extra headers get fuzzy rename suggestions against the
missing ones.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig(cmd.Context())
			logger := config.GetLogger(cmd.Context())
			reader := ingest.NewReader(logger)

			base, err := reader.ReadFile(args[0])
			if err != nil {
				return err
			}
			incoming, err := reader.ReadFile(args[1])
			if err != nil {
				return err
			}

			diff := schema.ComputeDiff(base.Headers, incoming.Headers, cfg.FuzzyThreshold)
			return renderDiff(cmd.OutOrStdout(), diff, cfg.Output)
		},
	}
}

func renderDiff(w io.Writer, diff schema.Diff, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(diff)
	}

	_, _ = fmt.Fprintln(w, diff.Summary())
	if !diff.HasDifferences() {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Header", "Status", "Suggested Rename"})
	for _, h := range diff.Matched {
		t.AppendRow(table.Row{h, "matched", ""})
	}
	for _, h := range diff.Missing {
		t.AppendRow(table.Row{h, "missing", ""})
	}
	for _, h := range diff.Extra {
		t.AppendRow(table.Row{h, "extra", diff.FuzzyMatches[h]})
	}
	t.Render()
	return nil
}
