package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		dbName   string
		expected string
	}{
		{
			name:     "no database name returns base unchanged",
			baseURL:  "postgres://u:p@localhost:5432/draws",
			dbName:   "",
			expected: "postgres://u:p@localhost:5432/draws",
		},
		{
			name:     "appends name and sslmode",
			baseURL:  "postgres://u:p@localhost:5432/",
			dbName:   "luckydraw",
			expected: "postgres://u:p@localhost:5432/luckydraw?sslmode=disable",
		},
		{
			name:     "keeps existing query parameters",
			baseURL:  "postgres://u:p@localhost:5432?connect_timeout=5",
			dbName:   "luckydraw",
			expected: "postgres://u:p@localhost:5432/luckydraw?connect_timeout=5&sslmode=disable",
		},
		{
			name:     "does not override sslmode",
			baseURL:  "postgres://u:p@db:5432?sslmode=require",
			dbName:   "luckydraw",
			expected: "postgres://u:p@db:5432/luckydraw?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConstructDatabaseURL(tt.baseURL, tt.dbName))
		})
	}
}
