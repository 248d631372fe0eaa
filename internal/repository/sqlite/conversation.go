package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/schmitech/orbit-client-go/internal/domain"
	"github.com/schmitech/orbit-client-go/internal/repository"

	"gorm.io/gorm"
)

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(ctx context.Context, conv *domain.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *conversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).Preload("Messages").First(&conv, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoConversationError{}
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).Preload("Messages").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoConversationError{}
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) GetMostRecent(ctx context.Context) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).Preload("Messages").Order("created_at DESC").First(&conv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoConversationError{}
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) List(ctx context.Context, limit int) ([]*domain.Conversation, error) {
	var convs []*domain.Conversation
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *conversationRepo) FindByPartialID(ctx context.Context, partialID string) (*domain.Conversation, error) {
	var convs []*domain.Conversation
	if err := r.db.WithContext(ctx).Preload("Messages").Where("id LIKE ?", partialID+"%").Find(&convs).Error; err != nil {
		return nil, err
	}
	switch len(convs) {
	case 0:
		return nil, domain.NoConversationError{}
	case 1:
		return convs[0], nil
	default:
		return nil, fmt.Errorf("ambiguous conversation ID %q matches %d conversations", partialID, len(convs))
	}
}

func (r *conversationRepo) AddMessage(ctx context.Context, convID uuid.UUID, msg *domain.Message) error {
	msg.ConversationID = convID
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *conversationRepo) GetMessages(ctx context.Context, convID uuid.UUID) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *conversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Conversation{}, "id = ?", id).Error
	})
}
