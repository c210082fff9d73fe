package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taslimamindia/inboxpilot/internal/gmail"
)

func newTriageCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Read and triage Gmail threads",
		Long: `Inspect a Gmail thread and move it through the triage labels.

The "inprogress" and "done" labels are created on demand; marking a message
done removes "inprogress" when present.`,
	}

	cmd.PersistentFlags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")

	newClient := func(ctx context.Context) (*gmail.Client, error) {
		client, err := gmail.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
		}
		return client, nil
	}

	readCmd := &cobra.Command{
		Use:   "read [message-id]",
		Short: "Print the thread of a message as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			messages, err := client.GetThreadMessages(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to read thread: %w", err)
			}
			out, err := json.MarshalIndent(messages, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render thread: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	var replyText, fromEmail string
	draftCmd := &cobra.Command{
		Use:   "draft [message-id]",
		Short: "Create a reply draft on the message's thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			draftID, err := client.CreateReplyDraft(ctx, args[0], replyText, fromEmail)
			if err != nil {
				return fmt.Errorf("failed to create draft: %w", err)
			}
			fmt.Printf("Draft created: %s\n", draftID)
			return nil
		},
	}
	draftCmd.Flags().StringVar(&replyText, "text", "", "Reply body text")
	draftCmd.Flags().StringVar(&fromEmail, "from", "", "Sender address (defaults to the original To header)")
	_ = draftCmd.MarkFlagRequired("text")

	unreadCmd := &cobra.Command{
		Use:   "unread [message-id]",
		Short: "Mark a message as unread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			if err := client.MarkAsUnread(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to mark unread: %w", err)
			}
			fmt.Println("Message marked as unread.")
			return nil
		},
	}

	inprogressCmd := &cobra.Command{
		Use:   "inprogress [message-id]",
		Short: "Apply the 'inprogress' label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			if err := client.MarkInProgress(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to mark in progress: %w", err)
			}
			fmt.Println("Label 'inprogress' added.")
			return nil
		},
	}

	doneCmd := &cobra.Command{
		Use:   "done [message-id]",
		Short: "Apply the 'done' label and drop 'inprogress'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			if err := client.MarkDone(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to mark done: %w", err)
			}
			fmt.Println("Label 'done' added.")
			return nil
		},
	}

	cmd.AddCommand(readCmd, draftCmd, unreadCmd, inprogressCmd, doneCmd)
	return cmd
}
