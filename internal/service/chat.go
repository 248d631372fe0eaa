package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schmitech/orbit-client-go/internal/client"
	"github.com/schmitech/orbit-client-go/internal/domain"
	"github.com/schmitech/orbit-client-go/internal/repository"
)

// Timing holds latency metrics for one exchange.
type Timing struct {
	Total      time.Duration
	FirstToken time.Duration // zero if no unit ever arrived
}

// StreamingTime is the span between the first token and completion.
func (t Timing) StreamingTime() time.Duration {
	if t.FirstToken == 0 {
		return 0
	}
	return t.Total - t.FirstToken
}

// ChatService orchestrates the server client and conversation history.
// A nil repository disables history recording.
type ChatService struct {
	client *client.Client
	repo   repository.ConversationRepository
}

func NewChatService(c *client.Client, repo repository.ConversationRepository) *ChatService {
	return &ChatService{client: c, repo: repo}
}

// Send sends a message in buffered mode and returns the cleaned
// response text.
func (s *ChatService) Send(ctx context.Context, content string) (string, Timing, error) {
	start := time.Now()

	raw, err := s.client.Chat(ctx, content)
	if err != nil {
		return "", Timing{}, err
	}

	timing := Timing{Total: time.Since(start)}
	response := CleanResponse(raw)
	s.record(ctx, content, response)
	return response, timing, nil
}

// SendStream sends a message in streaming mode, forwarding each decoded
// unit to fn as it arrives, and returns the accumulated cleaned response
// once the stream ends.
func (s *ChatService) SendStream(ctx context.Context, content string, fn func(client.StreamResponse) error) (string, Timing, error) {
	start := time.Now()
	var firstToken time.Duration
	var full string

	err := s.client.ChatStream(ctx, content, func(r client.StreamResponse) error {
		if firstToken == 0 {
			firstToken = time.Since(start)
		}
		if !r.Done {
			full += r.Text
		}
		if fn != nil {
			return fn(r)
		}
		return nil
	})
	if err != nil {
		return "", Timing{}, err
	}

	timing := Timing{Total: time.Since(start), FirstToken: firstToken}
	response := CleanResponse(full)
	s.record(ctx, content, response)
	return response, timing, nil
}

// record appends both sides of an exchange to the session's
// conversation. History failures are logged, never surfaced; losing a
// history row should not look like a failed chat.
func (s *ChatService) record(ctx context.Context, userContent, assistantContent string) {
	if s.repo == nil || assistantContent == "" {
		return
	}

	conv, err := s.conversation(ctx)
	if err != nil {
		slog.Debug("failed to resolve conversation", "error", err)
		return
	}

	for _, msg := range []*domain.Message{
		{Role: domain.RoleUser, Content: userContent},
		{Role: domain.RoleAssistant, Content: assistantContent},
	} {
		if err := s.repo.AddMessage(ctx, conv.ID, msg); err != nil {
			slog.Debug("failed to record message", "error", err)
			return
		}
	}
}

// conversation finds the conversation for the client's session,
// creating it on first use.
func (s *ChatService) conversation(ctx context.Context) (*domain.Conversation, error) {
	sessionID := s.client.SessionID()

	conv, err := s.repo.GetBySessionID(ctx, sessionID)
	if err == nil {
		return conv, nil
	}
	if !domain.IsNoConversationError(err) {
		return nil, err
	}

	conv = &domain.Conversation{SessionID: sessionID}
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}
