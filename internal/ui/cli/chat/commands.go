package chat

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/schmitech/orbit-client-go/internal/appState"
	"github.com/schmitech/orbit-client-go/internal/config"
	"github.com/schmitech/orbit-client-go/internal/domain"
	"github.com/schmitech/orbit-client-go/internal/shared"
	"github.com/schmitech/orbit-client-go/internal/ui/styles"
)

var slashCommands = []struct {
	name string
	desc string
}{
	{"/help", "Show this help message"},
	{"/clear", "Clear the screen"},
	{"/clear-history", "Delete the stored history of this session"},
	{"/reset-session", "Generate a new session ID"},
	{"/status", "Show current session and server info"},
	{"/debug", "Toggle debug mode on/off"},
	{"/debug-request", "Show debug info for the next request only"},
	{"/timing", "Toggle timing display on/off"},
	{"/version", "Show client version"},
	{"/quit", "Exit the chat client"},
}

// handleCommand executes a slash command. It returns true when the
// session should end.
func (s *session) handleCommand(ctx context.Context, input string) (bool, error) {
	switch input {
	case "/help":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, c := range slashCommands {
			fmt.Fprintf(w, "%s\t%s\n", c.name, c.desc)
		}
		return false, w.Flush()

	case "/clear":
		// ANSI clear screen + cursor home.
		fmt.Print("\033[2J\033[H")
		cfg := appState.Get().Config
		printBanner(s.sessionID, cfg.URL)
		return false, nil

	case "/clear-history":
		if err := s.clearHistory(ctx); err != nil {
			return false, err
		}
		return false, nil

	case "/reset-session":
		s.sessionID = uuid.New().String()
		svc, err := shared.NewChatServiceWith(s.sessionID, s.repo)
		if err != nil {
			return false, err
		}
		s.svc = svc
		fmt.Println(styles.SystemStyle.Render("Session reset! New ID: " + s.sessionID))
		return false, nil

	case "/status":
		cfg := appState.Get().Config
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Server URL\t%s\n", cfg.URL)
		fmt.Fprintf(w, "Session ID\t%s\n", s.sessionID)
		fmt.Fprintf(w, "API Key\t%s\n", config.Redacted(cfg.APIKey))
		fmt.Fprintf(w, "Debug Mode\t%s\n", onOff(s.debug))
		fmt.Fprintf(w, "Show Timing\t%s\n", onOff(s.showTiming))
		return false, w.Flush()

	case "/debug":
		s.debug = !s.debug
		fmt.Println(styles.WarningStyle.Render("Debug mode " + enabledDisabled(s.debug)))
		return false, nil

	case "/debug-request":
		s.debugNext = true
		fmt.Println(styles.WarningStyle.Render("Debug enabled for the next request"))
		return false, nil

	case "/timing":
		s.showTiming = !s.showTiming
		fmt.Println(styles.WarningStyle.Render("Timing display " + enabledDisabled(s.showTiming)))
		return false, nil

	case "/version":
		fmt.Println(styles.SystemStyle.Render("orbit-chat " + Version))
		return false, nil

	case "/quit":
		return true, nil

	default:
		fmt.Println(styles.WarningStyle.Render("Unknown command: " + input))
		fmt.Println(styles.DimStyle.Render("Type /help to see available commands"))
		return false, nil
	}
}

// clearHistory removes the stored conversation for the current session.
// An empty history is not an error.
func (s *session) clearHistory(ctx context.Context) error {
	conv, err := s.repo.GetBySessionID(ctx, s.sessionID)
	if err != nil {
		if domain.IsNoConversationError(err) {
			fmt.Println(styles.WarningStyle.Render("No stored history for this session"))
			return nil
		}
		return err
	}
	if err := s.repo.Delete(ctx, conv.ID); err != nil {
		return err
	}
	fmt.Println(styles.SystemStyle.Render("Session history cleared"))
	return nil
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

func enabledDisabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
