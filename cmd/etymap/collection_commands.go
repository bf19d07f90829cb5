package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCollectionCommand(ctx *commandContext) *cobra.Command {
	collectionCmd := &cobra.Command{
		Use:   "collection",
		Short: "Manage your saved word collection",
	}

	collectionCmd.AddCommand(newCollectionListCommand(ctx))
	collectionCmd.AddCommand(newCollectionSaveCommand(ctx))
	collectionCmd.AddCommand(newCollectionRemoveCommand(ctx))
	return collectionCmd
}

func newCollectionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved words",
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
			resp, err := client.Collection(cmd.Context(), userID)
			if err != nil {
				return wrapDaemonError(err)
			}

			out := cmd.OutOrStdout()
			if len(resp.Items) == 0 {
				fmt.Fprintln(out, "No saved words")
				return nil
			}
			rows := make([][]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				rows = append(rows, []string{
					item.Word,
					item.CreatedAt.Local().Format(time.DateTime),
					item.ID,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Word", "Saved", "ID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newCollectionSaveCommand(ctx *commandContext) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "save <word>",
		Short: "Trace a word and add it to your collection",
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
			traced, err := client.Trace(cmd.Context(), args[0], locale)
			if err != nil {
				return wrapDaemonError(err)
			}
			recordJSON, err := encodeRecord(traced.Record)
			if err != nil {
				return err
			}
			saved, err := client.SaveWord(cmd.Context(), userID, traced.Word, recordJSON)
			if err != nil {
				return wrapDaemonError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%s)\n", saved.Word, saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale to translate descriptive text into")
	return cmd
}

func newCollectionRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a saved word",
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
			if err := client.RemoveSavedWord(cmd.Context(), userID, args[0]); err != nil {
				return wrapDaemonError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
