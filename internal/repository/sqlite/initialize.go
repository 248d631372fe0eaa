package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schmitech/orbit-client-go/internal/domain"
	"github.com/schmitech/orbit-client-go/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens (creating if needed) the history database at dbPath
// and returns a conversation repository backed by it.
func Initialize(dbPath string) (repository.ConversationRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Conversation{}, &domain.Message{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewConversationRepository(db), nil
}
