package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"framescribe/internal/store"
	"framescribe/internal/transcript"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <doc> <keyword...>",
		Short: "Find segments containing a keyword (case-insensitive)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args[1:], " ")
			return ctx.withDocument(cmd.Context(), args[0], func(rec *store.Record, doc *transcript.Document) (bool, error) {
				matches := doc.Search(keyword)
				all := segmentViews(doc)
				views := make([]segmentView, 0, len(matches))
				for _, m := range matches {
					_, idx, ok := doc.Segment(m.ID)
					if ok {
						views = append(views, all[idx])
					}
				}
				if jsonOutput {
					return false, writeJSON(cmd, views)
				}
				if len(views) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No segments match %q\n", keyword)
					return false, nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d segment(s) match %q\n", len(views), keyword)
				fmt.Fprintln(cmd.OutOrStdout(), renderSegmentViews(views))
				return false, nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print matches as JSON")
	return cmd
}
