package migration_1

import (
	"fmt"

	"gorm.io/gorm"
)

type Run struct {
	Annotator string `gorm:"size:20;not null;default:'rule'"`
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().AddColumn(&Run{}, "annotator"); err != nil {
		return fmt.Errorf("error adding annotator column: %w", err)
	}

	if err := db.Model(&Run{}).
		Where("annotator IS NULL").
		Update("annotator", "rule").Error; err != nil {
		return fmt.Errorf("error setting default value for annotator: %w", err)
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropColumn(&Run{}, "annotator"); err != nil {
		return fmt.Errorf("error dropping annotator column: %w", err)
	}

	return nil
}
