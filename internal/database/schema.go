package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	JobRunning   string = "RUNNING"
	JobCompleted string = "COMPLETED"
	JobFailed    string = "FAILED"
)

// Run is one invocation of a data preparation job.
type Run struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Job       string `gorm:"size:40;not null;index"`
	Status    string `gorm:"size:20;not null"`
	Seed      int64
	Annotator string `gorm:"size:20;not null;default:'rule'"`

	Args  datatypes.JSON // command line arguments
	Stats datatypes.JSON // job specific counts, see jobs.*Stats

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
