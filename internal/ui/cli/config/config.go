package config

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/schmitech/orbit-client-go/internal/appState"
	"github.com/schmitech/orbit-client-go/internal/config"
	"github.com/spf13/cobra"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault()
		if err != nil {
			return err
		}
		fmt.Printf("Created default config file at %s\n", path)
		fmt.Println("Edit it to add your server URL and API key.")
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "url\t%s\n", cfg.URL)
		fmt.Fprintf(w, "api_key\t%s\n", config.Redacted(cfg.APIKey))
		fmt.Fprintf(w, "session_id\t%s\n", valueOr(cfg.SessionID, "(generated per run)"))
		fmt.Fprintf(w, "history_path\t%s\n", cfg.HistoryPath)
		fmt.Fprintf(w, "timeout\t%d\n", cfg.Timeout)
		fmt.Fprintf(w, "show_timing\t%t\n", cfg.ShowTiming)
		fmt.Fprintf(w, "debug\t%t\n", cfg.Debug)
		fmt.Fprintf(w, "log.level\t%s\n", cfg.Log.Level)
		fmt.Fprintf(w, "log.file\t%s\n", valueOr(cfg.Log.File, "(stderr)"))
		return w.Flush()
	},
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	ConfigCmd.AddCommand(initCmd, listCmd)
}
