package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"framescribe/internal/preflight"
	"framescribe/internal/translate"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, the document database, and the translation backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("framescribe doctor", colorize))
			results := preflight.RunAll(cfg)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if !translate.Configured(cfg.Translation) {
				fmt.Fprintln(out, renderStatusLine("Translation backend", statusWarn, "not configured; translate is disabled", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Segmentation", statusInfo,
				fmt.Sprintf("gap %.2fs, key %s, validate order %s", cfg.Segmentation.GapThreshold, cfg.Segmentation.Key, yesNo(cfg.Segmentation.ValidateOrder)),
				colorize))

			if preflight.Failed(results) {
				return errors.New("doctor found problems")
			}
			return nil
		},
	}
}
