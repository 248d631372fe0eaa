package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/schmitech/orbit-client-go/internal/appState"
	"github.com/schmitech/orbit-client-go/internal/config"
	"github.com/schmitech/orbit-client-go/internal/ui/cli/chat"
	configCmd "github.com/schmitech/orbit-client-go/internal/ui/cli/config"
	"github.com/schmitech/orbit-client-go/internal/ui/cli/history"
	"github.com/schmitech/orbit-client-go/internal/ui/cli/msg"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	urlFlag       string
	apiKeyFlag    string
	sessionIDFlag string
	logLevel      string
	logFile       string
)

var rootCmd = &cobra.Command{
	Use:               "orbit-chat",
	Short:             "Chat client for ORBIT servers",
	Long:              `A terminal client for ORBIT chat servers with streaming responses and local conversation history.`,
	DisableAutoGenTag: true,
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("orbit-chat %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Chat server URL")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "API key for authentication")
	rootCmd.PersistentFlags().StringVar(&sessionIDFlag, "session-id", "", "Session ID to use")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (defaults to stderr)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		overrides := &config.RuntimeOverrides{}
		if urlFlag != "" {
			overrides.URL = &urlFlag
		}
		if apiKeyFlag != "" {
			overrides.APIKey = &apiKeyFlag
		}
		if sessionIDFlag != "" {
			overrides.SessionID = &sessionIDFlag
		}
		if logLevel != "" {
			overrides.LogLevel = &logLevel
		}
		if logFile != "" {
			overrides.LogFile = &logFile
		}
		return appState.Initialize(overrides)
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Cleanup()
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	chat.Version = Version

	rootCmd.AddCommand(
		chat.ChatCmd,
		msg.MsgCmd,
		history.HistoryCmd,
		configCmd.ConfigCmd,
		versionCmd,
	)
}
