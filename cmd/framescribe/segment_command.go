package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"framescribe/internal/logging"
	"framescribe/internal/observation"
	"framescribe/internal/segmentation"
	"framescribe/internal/subtitles"
)

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	var (
		gap        float64
		key        string
		validate   bool
		srtPath    string
		keyword    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "segment <observations.jsonl|->",
		Short: "Cluster timestamped text observations into visual segments",
		Long: `Reads one JSON observation per line ({"text","time","confidence","region"})
ordered by time, and groups consecutive identical text into segments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.loggerValue()
			if err != nil {
				return err
			}

			segCfg := cfg.Segmentation
			if cmd.Flags().Changed("gap") {
				segCfg.GapThreshold = gap
			}
			if cmd.Flags().Changed("key") {
				segCfg.Key = strings.ToLower(strings.TrimSpace(key))
			}
			if cmd.Flags().Changed("validate-order") {
				segCfg.ValidateOrder = validate
			}
			opts, err := segmentation.OptionsFromConfig(segCfg)
			if err != nil {
				return err
			}

			input, closeInput, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeInput()

			runner := segmentation.Runner{
				Options:       opts,
				Logger:        logger,
				ValidateOrder: segCfg.ValidateOrder,
			}
			segments, err := runner.Run(cmd.Context(), observation.NewJSONLinesSource(input))
			if err != nil {
				return err
			}
			if strings.TrimSpace(keyword) != "" {
				segments = segmentation.Search(segments, keyword)
			}

			if srtPath != "" {
				if err := writeResult(cmd, srtPath, []byte(subtitles.FormatSRT(segments))); err != nil {
					return err
				}
				logger.Info("visual subtitles written",
					logging.String(logging.FieldEventType, "export_complete"),
					logging.String("path", srtPath),
					logging.Int("segments", len(segments)),
				)
				if srtPath == "-" {
					return nil
				}
			}

			if jsonOutput {
				if segments == nil {
					segments = []segmentation.Segment{}
				}
				return writeJSON(cmd, segments)
			}
			if len(segments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No segments")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderVisualSegments(segments))
			return nil
		},
	}

	cmd.Flags().Float64Var(&gap, "gap", 0, "Gap threshold in seconds (overrides segmentation.gap_threshold)")
	cmd.Flags().StringVar(&key, "key", "", "Clustering key: exact or normalized")
	cmd.Flags().BoolVar(&validate, "validate-order", false, "Reject observations whose timestamps decrease")
	cmd.Flags().StringVar(&srtPath, "srt", "", "Write the segments as SRT to this path (- for stdout)")
	cmd.Flags().StringVar(&keyword, "search", "", "Keep only segments containing this keyword")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print segments as JSON")
	return cmd
}

func renderVisualSegments(segments []segmentation.Segment) string {
	rows := make([][]string, 0, len(segments))
	for i, seg := range segments {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatTime(seg.StartTime),
			formatTime(seg.EndTime),
			strconv.Itoa(len(seg.Observations)),
			formatFloat(seg.MeanConfidence()),
			preview(seg.Text),
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Frames", "Conf", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

// openInput opens path for reading; "-" reads the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return file, func() { _ = file.Close() }, nil
}
