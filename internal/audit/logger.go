package audit

import (
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"github.com/skillbridge/registration-api/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	actorID *uint,
	actionType string,
	targetTable string,
	targetID string,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.ActionLog{
		ActorID:     actorID,
		ActionType:  actionType,
		TargetTable: targetTable,
		TargetID:    targetID,
		Metadata:    metaJSON,
	}

	return l.db.Create(&entry).Error
}

// LogCritical is the write used after a mutation already committed.
// One bounded retry; losing this entry is alert-worthy, not a silent drop.
func (l *Logger) LogCritical(
	actorID *uint,
	actionType string,
	targetTable string,
	targetID string,
	metadata any,
) error {

	err := l.Log(actorID, actionType, targetTable, targetID, metadata)
	if err == nil {
		return nil
	}

	log.Printf("audit write failed, retrying once: %v", err)

	if err = l.Log(actorID, actionType, targetTable, targetID, metadata); err != nil {
		log.Printf("ALERT: audit trail lost for action %s target %s/%s: %v",
			actionType, targetTable, targetID, err)
		return err
	}
	return nil
}
