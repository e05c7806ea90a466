package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/logmerge/internal/config"
	"github.com/leapstack-labs/logmerge/internal/frame"
	"github.com/leapstack-labs/logmerge/internal/ingest"
	"github.com/leapstack-labs/logmerge/internal/model"
	"github.com/leapstack-labs/logmerge/internal/schema"
)

// NewMergeCommand creates the merge command.
func NewMergeCommand() *cobra.Command {
	var (
		out      string
		timeMode string
		offset   float64
		scale    float64
		join     string
		joinKey  string
		mismatch string
		timeMin  float64
		timeMax  float64
	)

	cmd := &cobra.Command{
		Use:   "merge <file>...",
		Short: "Merge data files into one time-aligned table",
		Long: `Merge data files into a single table keyed by the derived plot-time
column. The first file seeds the result; each subsequent file joins in
under the chosen strategy. The merged table is written as CSV.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			mode, err := model.ParseTimeMode(timeMode)
			if err != nil {
				return err
			}
			joinStrategy := model.JoinUnset
			if join != "" {
				joinStrategy, err = model.ParseJoinStrategy(join)
				if err != nil {
					return err
				}
			}
			mismatchStrategy := model.MismatchStrategy(mismatch)
			switch mismatchStrategy {
			case model.MismatchStrict, model.MismatchUnion:
			default:
				return fmt.Errorf("mismatch strategy must be STRICT or UNION, got %q", mismatch)
			}

			reader := ingest.NewReader(logger)
			t := model.NewTest("merge")

			for i, path := range args {
				f, err := reader.ReadFile(path)
				if err != nil {
					return err
				}
				if cfg.TimeColumn != "" {
					if err := f.SetTimeColumn(cfg.TimeColumn); err != nil {
						return err
					}
				}
				f.TimeMode = mode
				f.TimeOffset = offset
				if err := f.SetTimeScale(scale); err != nil {
					return err
				}
				if i > 0 {
					if err := f.SetJoin(joinStrategy, joinKey, cfg.JoinTolerance); err != nil {
						return err
					}
				}
				if err := schema.ResolveAndAdd(t, f, mismatchStrategy, nil); err != nil {
					return err
				}
			}

			applyFilter := false
			if cmd.Flags().Changed("time-min") {
				v := timeMin
				t.FilterState.TimeMin = &v
				applyFilter = true
			}
			if cmd.Flags().Changed("time-max") {
				v := timeMax
				t.FilterState.TimeMax = &v
				applyFilter = true
			}

			merged := t.MergedFrame(applyFilter)
			logger.Info("merged files",
				"files", len(args), "rows", merged.NumRows(), "columns", merged.NumCols())

			w := cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer file.Close()
				w = file
			}
			return writeCSV(w, merged)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&timeMode, "time-mode", string(model.TimeRelative), "Time mode (ABSOLUTE|RELATIVE|CUSTOM_OFFSET)")
	cmd.Flags().Float64Var(&offset, "time-offset", 0, "Time offset added after the mode transform")
	cmd.Flags().Float64Var(&scale, "time-scale", 1.0, "Time scale applied after the offset")
	cmd.Flags().StringVar(&join, "join", "", "Join strategy for files after the first (TIME_NEAREST|TIME_EXACT|ALTERNATIVE_KEY|APPEND_SEGMENT)")
	cmd.Flags().StringVar(&joinKey, "join-key", "", "Key column for ALTERNATIVE_KEY joins")
	cmd.Flags().StringVar(&mismatch, "mismatch", string(model.MismatchUnion), "Header mismatch strategy (STRICT|UNION)")
	cmd.Flags().Float64Var(&timeMin, "time-min", 0, "Keep only rows at or after this plot time")
	cmd.Flags().Float64Var(&timeMax, "time-max", 0, "Keep only rows at or before this plot time")

	return cmd
}

// writeCSV renders a frame as CSV. NaN cells are written empty.
func writeCSV(w io.Writer, fr *frame.Frame) error {
	cw := csv.NewWriter(w)
	cols := fr.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}

	record := make([]string, len(cols))
	for i := 0; i < fr.NumRows(); i++ {
		for j, name := range cols {
			values, _ := fr.Column(name)
			if math.IsNaN(values[i]) {
				record[j] = ""
			} else {
				record[j] = strconv.FormatFloat(values[i], 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
