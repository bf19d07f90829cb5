package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"etymap/internal/api"
)

func newTraceCommand(ctx *commandContext) *cobra.Command {
	var locale string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trace <word>",
		Short: "Trace a word's etymological lineage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Trace(cmd.Context(), args[0], locale)
			if err != nil {
				return wrapDaemonError(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, resp)
			}
			renderEtymology(cmd, resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale to translate descriptive text into")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON")
	return cmd
}

func renderEtymology(cmd *cobra.Command, resp *api.EtymologyResponse) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	title := resp.Word
	if resp.Locale != "" {
		title = fmt.Sprintf("%s (%s)", resp.Word, resp.Locale)
	}
	fmt.Fprintln(out, renderSectionHeader("Etymology: "+title, colorize))

	rows := make([][]string, 0, len(resp.Markers))
	for _, marker := range resp.Markers {
		meaning := ""
		if marker.Insight != nil {
			meaning = marker.Insight.Meaning
		}
		rows = append(rows, []string{
			string(marker.Stage),
			marker.Word,
			marker.Label,
			formatYear(marker.Year),
			fmt.Sprintf("%.1f, %.1f", marker.Lat, marker.Lng),
			marker.CountryCode,
			meaning,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Word", "Language", "Year", "Location", "Country", "Idiom"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	))

	steps := make([]string, 0, len(resp.Steps))
	for _, year := range resp.Steps {
		steps = append(steps, strconv.Itoa(year))
	}
	fmt.Fprintf(out, "Timeline steps: %s\n", strings.Join(steps, " -> "))
}
