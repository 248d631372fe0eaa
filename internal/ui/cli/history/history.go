package history

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/schmitech/orbit-client-go/internal/domain"
	"github.com/schmitech/orbit-client-go/internal/shared"
	"github.com/spf13/cobra"
)

var (
	limitFlag int
	forceFlag bool
)

var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage local conversation history",
}

var listCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := shared.NewRepository()
		if err != nil {
			return err
		}

		convs, err := repo.List(cmd.Context(), limitFlag)
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCreated\tMessages\tPreview")

		for _, conv := range convs {
			messages, err := repo.GetMessages(cmd.Context(), conv.ID)
			if err != nil {
				return fmt.Errorf("failed to get messages: %w", err)
			}

			preview := "[empty]"
			for _, msg := range messages {
				if msg.Role == domain.RoleUser {
					preview = msg.Content
					break
				}
			}
			if len(preview) > 50 {
				preview = preview[:47] + "..."
			}

			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				conv.ID.String()[:8],
				conv.CreatedAt.Format(time.RFC822),
				len(messages),
				preview,
			)
		}
		return w.Flush()
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [conversation_id]",
	Short: "View the messages in a conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := shared.NewRepository()
		if err != nil {
			return err
		}

		var conv *domain.Conversation
		if len(args) == 1 {
			conv, err = repo.FindByPartialID(cmd.Context(), args[0])
		} else {
			conv, err = repo.GetMostRecent(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to find conversation: %w", err)
		}

		return printConversation(conv, limitFlag)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "rm [conversation_id]",
	Short: "Delete a conversation and all its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := shared.NewRepository()
		if err != nil {
			return err
		}

		conv, err := repo.FindByPartialID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to find conversation: %w", err)
		}

		fmt.Printf("About to delete conversation %s (%d messages, created %s)\n",
			conv.ID.String()[:8],
			len(conv.Messages),
			conv.CreatedAt.Format(time.RFC822),
		)

		if !forceFlag {
			fmt.Print("\nAre you sure you want to delete this conversation? [y/N] ")
			var response string
			fmt.Scanln(&response)

			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Println("Operation cancelled")
				return nil
			}
		}

		if err := repo.Delete(cmd.Context(), conv.ID); err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}

		fmt.Println("Conversation deleted")
		return nil
	},
}

func printConversation(conv *domain.Conversation, limit int) error {
	fmt.Printf("Conversation %s (session %s, created %s)\n\n",
		conv.ID.String()[:8],
		conv.SessionID,
		conv.CreatedAt.Format(time.RFC822),
	)

	messages := conv.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	for _, msg := range messages {
		roleStr := "You"
		if msg.Role == domain.RoleAssistant {
			roleStr = "Assistant"
		}
		fmt.Printf("%s: %s\n\n", roleStr, msg.Content)
	}

	return nil
}

func init() {
	listCmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Limit the number of conversations to show (0 for all)")
	viewCmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Limit the number of messages to show (0 for all)")
	deleteCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Delete without confirmation")

	HistoryCmd.AddCommand(listCmd, viewCmd, deleteCmd)
}
