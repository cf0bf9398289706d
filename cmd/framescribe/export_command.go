package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"framescribe/internal/logging"
	"framescribe/internal/preflight"
	"framescribe/internal/store"
	"framescribe/internal/subtitles"
	"framescribe/internal/textutil"
	"framescribe/internal/transcript"
)

const (
	formatSRT  = "srt"
	formatDual = "dual"
	formatJSON = "json"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		format  string
		outPath string
		order   string
		indent  int
	)

	cmd := &cobra.Command{
		Use:   "export <doc>",
		Short: "Export a document as SRT, dual-language SRT, or JSON",
		Long: `Writes to --out, or to <export_dir>/<name>.<ext> when --out is omitted.
Use --out - to print to stdout.`,
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
			format = strings.ToLower(strings.TrimSpace(format))
			if !cmd.Flags().Changed("order") {
				order = cfg.Export.DualOrder
			}
			dualOrder, err := subtitles.ParseDualOrder(order)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("indent") {
				indent = cfg.Export.JSONIndent
			}

			return ctx.withDocument(cmd.Context(), args[0], func(rec *store.Record, doc *transcript.Document) (bool, error) {
				data, err := renderExport(doc, format, dualOrder, indent)
				if err != nil {
					return false, err
				}
				if format != formatJSON {
					if issues := subtitles.ValidateSRT(string(data)); len(issues) > 0 {
						logging.WarnWithContext(logger, "exported subtitles failed validation", "srt_validation",
							logging.String(logging.FieldDocumentID, rec.ID),
							logging.String("issues", strings.Join(issues, "; ")),
							logging.String(logging.FieldImpact, "players may skip or misplace cues"),
						)
					}
				}

				target := strings.TrimSpace(outPath)
				if target == "" {
					if check := preflight.CheckExportDirectory(cfg.Paths.ExportDir); !check.Passed {
						return false, fmt.Errorf("export directory unavailable: %s", check.Detail)
					}
					target = filepath.Join(cfg.Paths.ExportDir, exportFileName(rec, doc, format))
				}
				if err := writeResult(cmd, target, data); err != nil {
					return false, err
				}
				logger.Info("document exported",
					logging.String(logging.FieldEventType, "export_complete"),
					logging.String(logging.FieldDocumentID, rec.ID),
					logging.String("format", format),
					logging.String("path", target),
				)
				return false, nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSRT, "Export format: srt, dual, or json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path (- for stdout)")
	cmd.Flags().StringVar(&order, "order", "", "Dual-language line order: translated_first or original_first")
	cmd.Flags().IntVar(&indent, "indent", 0, "JSON indent width (0 for compact)")
	return cmd
}

func renderExport(doc *transcript.Document, format string, order subtitles.DualOrder, indent int) ([]byte, error) {
	segments := doc.Segments()
	switch format {
	case formatSRT:
		return []byte(subtitles.FormatSRT(segments)), nil
	case formatDual:
		return []byte(subtitles.FormatDualSRT(segments, order)), nil
	case formatJSON:
		var buf bytes.Buffer
		if err := subtitles.EncodeJSON(&buf, segments, doc.Language(), indent); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want srt, dual, or json)", format)
	}
}

func exportFileName(rec *store.Record, doc *transcript.Document, format string) string {
	base := textutil.SanitizeFileName(rec.Name)
	if base == "" {
		base = rec.ShortID()
	}
	switch format {
	case formatDual:
		return base + ".dual.srt"
	case formatJSON:
		return base + ".json"
	default:
		if lang := doc.Language(); lang != "" {
			return base + "." + lang + ".srt"
		}
		return base + ".srt"
	}
}

func newCheckSRTCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "check-srt <file.srt|->",
		Short:       "Validate an SRT file and report its cues",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, closeInput, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeInput()
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(input); err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			raw := buf.String()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cues: %d\n", subtitles.CountCues(raw))
			issues := subtitles.ValidateSRT(raw)
			if len(issues) == 0 {
				entries, err := subtitles.ParseSRT(strings.NewReader(raw))
				if err != nil {
					return err
				}
				if n := len(entries); n > 0 {
					fmt.Fprintf(out, "Span: %s --> %s\n", formatTime(entries[0].Start), formatTime(entries[n-1].End))
				}
				fmt.Fprintln(out, "SRT valid")
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			return fmt.Errorf("%s: %d issue(s)", args[0], len(issues))
		},
	}
}
