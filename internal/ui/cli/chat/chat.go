package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schmitech/orbit-client-go/internal/appState"
	"github.com/schmitech/orbit-client-go/internal/client"
	"github.com/schmitech/orbit-client-go/internal/repository"
	"github.com/schmitech/orbit-client-go/internal/service"
	"github.com/schmitech/orbit-client-go/internal/shared"
	"github.com/schmitech/orbit-client-go/internal/ui/styles"
	"github.com/spf13/cobra"
)

// Version is injected by the root command so /version matches the binary.
var Version = "dev"

// maxInputLine bounds a single prompt line. Pasted prompts can exceed
// bufio.Scanner's 64KB default by a wide margin.
const maxInputLine = 1024 * 1024

// session holds the mutable state of one interactive run.
type session struct {
	sessionID  string
	svc        *service.ChatService
	repo       repository.ConversationRepository
	showTiming bool
	debug      bool
	debugNext  bool
}

var ChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Start an interactive chat session. Type /help inside the session for available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config

		repo, err := shared.NewRepository()
		if err != nil {
			return err
		}
		s := &session{
			sessionID:  shared.SessionID(),
			repo:       repo,
			showTiming: cfg.ShowTiming,
			debug:      cfg.Debug,
		}
		svc, err := shared.NewChatServiceWith(s.sessionID, repo)
		if err != nil {
			return err
		}
		s.svc = svc

		printBanner(s.sessionID, cfg.URL)

		scanner := newInputScanner(os.Stdin)
		for {
			fmt.Printf("\n%s ", styles.UserStyle.Render("You:"))
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				break
			}

			if strings.HasPrefix(input, "/") {
				quit, err := s.handleCommand(cmd.Context(), input)
				if err != nil {
					fmt.Println(styles.ErrorStyle.Render(err.Error()))
				}
				if quit {
					break
				}
				continue
			}

			s.exchange(cmd, input)
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		fmt.Println(styles.SystemStyle.Render("\nGoodbye!"))
		return nil
	},
}

// newInputScanner returns a line scanner sized for long pasted prompts.
func newInputScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)
	return scanner
}

// wantDebug reports whether the upcoming request should print debug
// info, consuming a one-shot /debug-request arm if set.
func (s *session) wantDebug() bool {
	if s.debugNext {
		s.debugNext = false
		return true
	}
	return s.debug
}

func (s *session) exchange(cmd *cobra.Command, input string) {
	if s.wantDebug() {
		cfg := appState.Get().Config
		fmt.Println(styles.DimStyle.Render(fmt.Sprintf("-> POST %s (session %s)", cfg.URL, s.sessionID)))
	}

	fmt.Println()
	_, timing, err := s.svc.SendStream(cmd.Context(), input, func(r client.StreamResponse) error {
		if !r.Done {
			fmt.Print(styles.AssistantStyle.Render(r.Text))
		}
		return nil
	})
	fmt.Println()
	if err != nil {
		var reqErr *client.RequestError
		if errors.As(err, &reqErr) {
			fmt.Println(styles.ErrorStyle.Render("Error connecting to server: " + reqErr.Error()))
		} else {
			fmt.Println(styles.ErrorStyle.Render("An error occurred: " + err.Error()))
		}
		return
	}

	if s.showTiming {
		printTiming(timing)
	}
}

func printBanner(sessionID, url string) {
	banner := fmt.Sprintf(
		"%s\n\n%s %s\n%s %s\n\n%s\n%s",
		styles.SystemStyle.Render("Welcome to the ORBIT Chat Client!"),
		styles.SystemStyle.Render("Server URL:"), url,
		styles.SystemStyle.Render("Session ID:"), sessionID,
		styles.DimStyle.Render("Type 'exit' or 'quit' to end the conversation"),
		styles.DimStyle.Render("Type '/help' for available commands"),
	)
	fmt.Println(styles.BannerStyle.Render(banner))
}

func printTiming(t service.Timing) {
	fmt.Println(styles.DimStyle.Render(fmt.Sprintf(
		"total time: %.3fs | time to first token: %.3fs | streaming time: %.3fs",
		t.Total.Seconds(), t.FirstToken.Seconds(), t.StreamingTime().Seconds(),
	)))
}
