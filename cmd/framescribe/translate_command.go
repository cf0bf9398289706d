package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"framescribe/internal/config"
	"framescribe/internal/language"
	"framescribe/internal/store"
	"framescribe/internal/transcript"
	"framescribe/internal/translate"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var (
		target    string
		workers   int
		overwrite bool
		command   string
	)

	cmd := &cobra.Command{
		Use:   "translate <doc>",
		Short: "Translate every segment with the configured translation backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.loggerValue()
			if err != nil {
				return err
			}

			trCfg := cfg.Translation
			if cmd.Flags().Changed("command") {
				trCfg.Command = strings.TrimSpace(command)
				trCfg.Provider = config.ProviderCommand
			}
			if cmd.Flags().Changed("workers") {
				trCfg.Workers = workers
			}
			if cmd.Flags().Changed("target") {
				trCfg.TargetLanguage = language.ToISO2(target)
				if trCfg.TargetLanguage == "" {
					return fmt.Errorf("unrecognized target language %q", target)
				}
			}
			if trCfg.TargetLanguage == "" {
				return errors.New("target language required (--target or translation.target_language)")
			}
			translator, err := translate.New(trCfg)
			if err != nil {
				if errors.Is(err, translate.ErrNotConfigured) {
					return fmt.Errorf("%w; set translation.command or use provider %q", err, config.ProviderLLM)
				}
				return err
			}
			if err := translator.Available(); err != nil {
				return err
			}

			return ctx.withStore(func(st *store.Store) error {
				rec, err := resolveDocument(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				doc, err := rec.Document()
				if err != nil {
					return err
				}

				started := time.Now()
				session := transcript.NewSession(doc, logger)
				result, runErr := transcript.TranslateAll(cmd.Context(), session, translator, transcript.TranslateOptions{
					Workers:        trCfg.Workers,
					TargetLanguage: trCfg.TargetLanguage,
					Overwrite:      overwrite,
					Logger:         logger,
				})

				// Applied translations are kept even when interrupted.
				if result.Applied > 0 {
					var saveErr error
					session.View(func(d *transcript.Document) {
						saveErr = st.Save(cmd.Context(), rec, d)
					})
					if saveErr != nil {
						return saveErr
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Translated %d of %d segment(s) to %s in %s",
					result.Applied, result.Requested, language.DisplayName(trCfg.TargetLanguage),
					time.Since(started).Round(time.Millisecond))
				if result.Stale > 0 || result.Failed > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " (stale %d, failed %d)", result.Stale, result.Failed)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return runErr
			})
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target language (overrides translation.target_language)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent translation requests (overrides translation.workers)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Retranslate segments that already have a translation")
	cmd.Flags().StringVar(&command, "command", "", "Translation command (overrides translation.command)")
	return cmd
}
