package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/schmitech/orbit-client-go/internal/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Conversation, error)
	GetMostRecent(ctx context.Context) (*domain.Conversation, error)
	List(ctx context.Context, limit int) ([]*domain.Conversation, error)
	FindByPartialID(ctx context.Context, partialID string) (*domain.Conversation, error)
	AddMessage(ctx context.Context, convID uuid.UUID, msg *domain.Message) error
	GetMessages(ctx context.Context, convID uuid.UUID) ([]domain.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
