package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTableColumns(t *testing.T) {
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// The mirror table as the store creates it.
	err = db.Exec("CREATE TABLE cases (id INTEGER PRIMARY KEY, logical_timestamp INTEGER NOT NULL, blob TEXT NOT NULL)").Error
	assert.NoError(t, err)

	columns, err := GetTableColumns(db, "cases")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "integer", colMap["logical_timestamp"])
	assert.Equal(t, "text", colMap["blob"])

	// PRAGMA table_info on a missing table yields no rows and no error.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}
