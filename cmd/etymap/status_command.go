package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"etymap/internal/daemonctl"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			status, err := client.Status(cmd.Context())
			if err != nil {
				if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
					fmt.Fprintln(out, renderSectionHeader("etymap", colorize))
					fmt.Fprintln(out, renderWarnLine("Daemon", "not running (start with `etymapd`)", colorize))
					return nil
				}
				return err
			}

			fmt.Fprintln(out, renderSectionHeader("etymap", colorize))
			fmt.Fprintln(out, renderStatusLine("Daemon", "running (pid "+strconv.Itoa(status.PID)+")", colorize))
			fmt.Fprintln(out, renderStatusLine("Sessions", strconv.Itoa(status.Sessions), colorize))
			fmt.Fprintln(out, renderStatusLine("Database", status.DBPath, colorize))
			if status.LLMConfigured {
				fmt.Fprintln(out, renderStatusLine("Etymology LLM", "configured", colorize))
			} else {
				fmt.Fprintln(out, renderWarnLine("Etymology LLM", "not configured (canned lineages will be served)", colorize))
			}
			if status.TranslationConfigured {
				fmt.Fprintln(out, renderStatusLine("Translation", "configured", colorize))
			} else {
				fmt.Fprintln(out, renderWarnLine("Translation", "not configured (text passes through untranslated)", colorize))
			}
			return nil
		},
	}
}
