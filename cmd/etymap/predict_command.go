package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPredictCommand(ctx *commandContext) *cobra.Command {
	var year int
	var trend string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "predict <word>",
		Short: "Predict the future form of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Predict(cmd.Context(), args[0], year, trend)
			if err != nil {
				return wrapDaemonError(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, resp)
			}

			colorize := shouldColorize(out)
			p := resp.Prediction
			fmt.Fprintln(out, renderSectionHeader(fmt.Sprintf("%s in %d", resp.Word, p.Year), colorize))
			fmt.Fprintln(out, renderStatusLine("Future form", p.Word, colorize))
			if p.Phonetic != "" {
				fmt.Fprintln(out, renderStatusLine("Phonetic", p.Phonetic, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Definition", p.Definition, colorize))
			if p.Context != "" {
				fmt.Fprintln(out, renderStatusLine("Context", p.Context, colorize))
			}
			if p.Example != "" {
				fmt.Fprintln(out, renderStatusLine("Example", p.Example, colorize))
			}
			if p.Post != "" {
				fmt.Fprintln(out, renderStatusLine("Post", p.Post, colorize))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Target year (defaults to the configured one)")
	cmd.Flags().StringVar(&trend, "trend", "", "Linguistic trend to assume")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON")
	return cmd
}

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <locale> <text>",
		Short: "Translate a piece of text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Translate(cmd.Context(), args[1], args[0])
			if err != nil {
				return wrapDaemonError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
			return nil
		},
	}
	return cmd
}
