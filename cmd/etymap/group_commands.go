package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"etymap/internal/api"
	"etymap/internal/etymology"
)

func newGroupCommand(ctx *commandContext) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Study groups and shared words",
	}

	groupCmd.AddCommand(newGroupListCommand(ctx))
	groupCmd.AddCommand(newGroupCreateCommand(ctx))
	groupCmd.AddCommand(newGroupJoinCommand(ctx))
	groupCmd.AddCommand(newGroupMessagesCommand(ctx))
	groupCmd.AddCommand(newGroupSendCommand(ctx))
	groupCmd.AddCommand(newGroupShareCommand(ctx))
	return groupCmd
}

func newGroupListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Groups(cmd.Context(), userID)
			if err != nil {
				return wrapDaemonError(err)
			}

			out := cmd.OutOrStdout()
			if len(resp.Groups) == 0 {
				fmt.Fprintln(out, "No groups")
				return nil
			}
			rows := make([][]string, 0, len(resp.Groups))
			for _, group := range resp.Groups {
				rows = append(rows, []string{group.Name, group.JoinCode, group.ID})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Code", "ID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newGroupCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			group, err := client.CreateGroup(cmd.Context(), args[0], userID)
			if err != nil {
				return wrapDaemonError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q; share code %s to invite others\n", group.Name, group.JoinCode)
			return nil
		},
	}
}

func newGroupJoinCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a group by its code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			group, err := client.JoinGroup(cmd.Context(), args[0], userID)
			if err != nil {
				return wrapDaemonError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joined %q\n", group.Name)
			return nil
		},
	}
}

func newGroupMessagesCommand(ctx *commandContext) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "messages <group-id>",
		Short: "Show a group's chat history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Messages(cmd.Context(), args[0], locale)
			if err != nil {
				return wrapDaemonError(err)
			}

			out := cmd.OutOrStdout()
			for _, msg := range resp.Messages {
				stamp := msg.CreatedAt.Local().Format(time.Kitchen)
				if msg.IsSharedWord {
					fmt.Fprintf(out, "[%s] %s shared %q%s\n", stamp, msg.UserID, msg.Content, sharedWordSummary(msg.Word))
					continue
				}
				fmt.Fprintf(out, "[%s] %s: %s\n", stamp, msg.UserID, msg.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale to translate messages into")
	return cmd
}

func newGroupSendCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "send <group-id> <message>",
		Short: "Post a message to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			_, err = client.PostMessage(cmd.Context(), args[0], api.PostMessageRequest{
				UserID:  userID,
				Content: args[1],
			})
			if err != nil {
				return wrapDaemonError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sent")
			return nil
		},
	}
}

func newGroupShareCommand(ctx *commandContext) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "share <group-id> <word>",
		Short: "Trace a word and share it with a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			traced, err := client.Trace(cmd.Context(), args[1], locale)
			if err != nil {
				return wrapDaemonError(err)
			}
			recordJSON, err := encodeRecord(traced.Record)
			if err != nil {
				return err
			}
			_, err = client.PostMessage(cmd.Context(), args[0], api.PostMessageRequest{
				UserID: userID,
				Word:   traced.Word,
				Record: recordJSON,
			})
			if err != nil {
				return wrapDaemonError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shared %q\n", traced.Word)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale to translate descriptive text into")
	return cmd
}

func encodeRecord(record *etymology.Record) (json.RawMessage, error) {
	if record == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return encoded, nil
}

func sharedWordSummary(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	record, err := etymology.ParseRecord(raw)
	if err != nil || record.Root == nil {
		return ""
	}
	return fmt.Sprintf(" (from %s %q)", record.Root.Language, record.Root.Word)
}
