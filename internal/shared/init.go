package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schmitech/orbit-client-go/internal/appState"
	"github.com/schmitech/orbit-client-go/internal/client"
	"github.com/schmitech/orbit-client-go/internal/repository"
	"github.com/schmitech/orbit-client-go/internal/repository/sqlite"
	"github.com/schmitech/orbit-client-go/internal/service"
)

// SessionID returns the configured session ID or generates a fresh one.
func SessionID() string {
	cfg := appState.Get().Config
	if cfg.SessionID != "" {
		return cfg.SessionID
	}
	return uuid.New().String()
}

// NewRepository opens the conversation history store from config.
func NewRepository() (repository.ConversationRepository, error) {
	cfg := appState.Get().Config
	return sqlite.Initialize(cfg.HistoryPath)
}

// NewChatService wires a server client and the history store into a
// chat service bound to the given session ID.
func NewChatService(sessionID string) (*service.ChatService, error) {
	repo, err := NewRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return NewChatServiceWith(sessionID, repo)
}

// NewChatServiceWith is NewChatService with an already-open history
// store, so callers that keep a repository around can rebind sessions
// without reopening the database.
func NewChatServiceWith(sessionID string, repo repository.ConversationRepository) (*service.ChatService, error) {
	cfg := appState.Get().Config

	opts := []client.Option{
		client.WithSessionID(sessionID),
		client.WithTimeout(time.Duration(cfg.Timeout) * time.Second),
	}
	if cfg.APIKey != "" {
		opts = append(opts, client.WithAPIKey(cfg.APIKey))
	}

	c, err := client.New(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	return service.NewChatService(c, repo), nil
}
