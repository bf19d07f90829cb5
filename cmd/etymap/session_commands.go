package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"etymap/internal/api"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage viewer sessions and timeline playback",
	}

	sessionCmd.AddCommand(newSessionOpenCommand(ctx))
	sessionCmd.AddCommand(newSessionSceneCommand(ctx))
	sessionCmd.AddCommand(newSessionPlaybackCommands(ctx)...)
	return sessionCmd
}

// newSessionOpenCommand creates a session and optionally loads a word into
// it in one shot.
func newSessionOpenCommand(ctx *commandContext) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "open [word]",
		Short: "Open a session, optionally loading a word",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			sess, err := client.CreateSession(cmd.Context())
			if err != nil {
				return wrapDaemonError(err)
			}
			if len(args) == 1 {
				sess, err = client.Search(cmd.Context(), sess.ID, args[0], locale)
				if err != nil {
					return wrapDaemonError(err)
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s\n", sess.ID)
			printPlayback(cmd, sess.Playback)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale to translate descriptive text into")
	return cmd
}

func newSessionSceneCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene <session-id>",
		Short: "Show the current derived frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Scene(cmd.Context(), args[0])
			if err != nil {
				return wrapDaemonError(err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	return cmd
}

func newSessionPlaybackCommands(ctx *commandContext) []*cobra.Command {
	run := func(build func(args []string) (api.PlaybackRequest, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			req, err := build(args[1:])
			if err != nil {
				return err
			}
			status, err := client.Playback(cmd.Context(), args[0], req)
			if err != nil {
				return wrapDaemonError(err)
			}
			printPlayback(cmd, *status)
			return nil
		}
	}

	toggle := &cobra.Command{
		Use:   "toggle <session-id>",
		Short: "Toggle play/pause",
		Args:  cobra.ExactArgs(1),
		RunE: run(func([]string) (api.PlaybackRequest, error) {
			return api.PlaybackRequest{Action: api.PlaybackActionToggle}, nil
		}),
	}

	seek := &cobra.Command{
		Use:   "seek <session-id> <index>",
		Short: "Jump to a step index (pauses playback)",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(args []string) (api.PlaybackRequest, error) {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return api.PlaybackRequest{}, fmt.Errorf("invalid index %q", args[0])
			}
			return api.PlaybackRequest{Action: api.PlaybackActionSeek, Index: &index}, nil
		}),
	}

	step := &cobra.Command{
		Use:   "step <session-id> [delta]",
		Short: "Move the cursor by delta steps (default 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: run(func(args []string) (api.PlaybackRequest, error) {
			delta := 1
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil {
					return api.PlaybackRequest{}, fmt.Errorf("invalid delta %q", args[0])
				}
				delta = parsed
			}
			return api.PlaybackRequest{Action: api.PlaybackActionStep, Delta: &delta}, nil
		}),
	}

	reset := &cobra.Command{
		Use:   "reset <session-id>",
		Short: "Rewind to the first step and pause",
		Args:  cobra.ExactArgs(1),
		RunE: run(func([]string) (api.PlaybackRequest, error) {
			return api.PlaybackRequest{Action: api.PlaybackActionReset}, nil
		}),
	}

	speed := &cobra.Command{
		Use:   "speed <session-id> <normal|slow>",
		Short: "Set the playback cadence",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(args []string) (api.PlaybackRequest, error) {
			return api.PlaybackRequest{Action: api.PlaybackActionSpeed, Speed: args[0]}, nil
		}),
	}

	return []*cobra.Command{toggle, seek, step, reset, speed}
}

func printPlayback(cmd *cobra.Command, status api.PlaybackStatus) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderStatusLine("State", status.State, colorize))
	if status.Year != nil {
		fmt.Fprintln(out, renderStatusLine("Year", formatYear(*status.Year), colorize))
		fmt.Fprintln(out, renderStatusLine("Step", fmt.Sprintf("%d of %d", status.Index+1, len(status.Steps)), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Speed", status.Speed, colorize))
}
