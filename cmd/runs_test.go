package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/radiance-crm/loyalty-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 5, 12, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:       "abc12345-6789-0000-0000-000000000000",
			InputDir: "/data/plannings",
			Status:   model.RunStatusComplete,
			Stats: model.RunStats{
				FilesFound:   4,
				LoyalRecords: 12,
			},
			CreatedAt: now,
			UpdatedAt: now.Add(3 * time.Second),
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			InputDir:  "/data/autres",
			Status:    model.RunStatusEmpty,
			CreatedAt: now.Add(-1 * time.Hour),
			UpdatedAt: now.Add(-1 * time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "INPUT")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "abc12345")
	assert.Contains(t, output, "/data/plannings")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "12")
	assert.Contains(t, output, "2026-05-12 10:30")
	assert.Contains(t, output, "3s")
	assert.Contains(t, output, "empty")
}

func TestFormatRunsList_TruncatesLongInputDir(t *testing.T) {
	long := "/very/long/path/that/keeps/going/and/going/plannings2026"
	runs := []model.Run{
		{
			ID:       "abc12345-6789-0000-0000-000000000000",
			InputDir: long,
			Status:   model.RunStatusComplete,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.NotContains(t, output, long)
	assert.Contains(t, output, "..."+long[len(long)-27:])
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789-0000-0000-000000000000"))
	assert.Equal(t, "short", truncateID("short"))
}
