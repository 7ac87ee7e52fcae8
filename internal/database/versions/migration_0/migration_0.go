package migration_0

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Run struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Job    string `gorm:"size:40;not null;index"`
	Status string `gorm:"size:20;not null"`
	Seed   int64

	Args  datatypes.JSON
	Stats datatypes.JSON

	CreationTime   time.Time
	CompletionTime sql.NullTime

	Errors []RunError `gorm:"foreignKey:RunId;constraint:OnDelete:CASCADE"`
}

type RunError struct {
	RunId     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ErrorId   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Error     string
	Timestamp time.Time
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&Run{}, &RunError{}); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
