package msg

import (
	"fmt"

	"github.com/schmitech/orbit-client-go/internal/client"
	"github.com/schmitech/orbit-client-go/internal/shared"
	"github.com/schmitech/orbit-client-go/internal/ui/styles"
	"github.com/spf13/cobra"
)

var (
	noStreamFlag bool
	timingFlag   bool
)

var MsgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Send one-off messages",
}

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a single message and print the response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := shared.NewChatService(shared.SessionID())
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", styles.UserStyle.Render("You:"), args[0])

		if noStreamFlag {
			response, timing, err := svc.Send(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("chat failed: %w", err)
			}
			fmt.Println(styles.AssistantStyle.Render(response))
			if timingFlag {
				fmt.Println(styles.DimStyle.Render(fmt.Sprintf("total time: %.3fs", timing.Total.Seconds())))
			}
			return nil
		}

		_, timing, err := svc.SendStream(cmd.Context(), args[0], func(r client.StreamResponse) error {
			if !r.Done {
				fmt.Print(styles.AssistantStyle.Render(r.Text))
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		fmt.Println()

		if timingFlag {
			fmt.Println(styles.DimStyle.Render(fmt.Sprintf(
				"total time: %.3fs, time to first token: %.3fs",
				timing.Total.Seconds(), timing.FirstToken.Seconds(),
			)))
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().BoolVar(&noStreamFlag, "no-stream", false, "Wait for the full response instead of streaming")
	sendCmd.Flags().BoolVar(&timingFlag, "timing", false, "Show latency metrics")
	MsgCmd.AddCommand(sendCmd)
}
