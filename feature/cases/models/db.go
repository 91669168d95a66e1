package models

import (
	"encoding/json"

	"case-mirror/core/mirror"
)

// Case represents the 'cases' mirror table. The blob column holds the full
// registry payload verbatim; id and logical_timestamp are lifted out of it
// so the table can be scanned in id order and compared by version without
// touching the payload.
type Case struct {
	ID               int64  `gorm:"column:id;primaryKey"`
	LogicalTimestamp int64  `gorm:"column:logical_timestamp"`
	Blob             string `gorm:"column:blob"`
}

// TableName overrides the table name used by GORM.
func (Case) TableName() string {
	return "cases"
}

// Record converts the row to the merge form used by the engine.
func (c Case) Record() mirror.Record {
	return mirror.Record{
		ID:      c.ID,
		Version: c.LogicalTimestamp,
		Payload: json.RawMessage(c.Blob),
	}
}

// FromRecord builds a row from the engine's merge form.
func FromRecord(rec mirror.Record) Case {
	return Case{
		ID:               rec.ID,
		LogicalTimestamp: rec.Version,
		Blob:             string(rec.Payload),
	}
}
