package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority_WeightAndLabel(t *testing.T) {
	tests := []struct {
		p      Priority
		weight int
		label  string
		valid  bool
	}{
		{PriorityLow, 1, "Low", true},
		{PriorityMedium, 2, "Medium", true},
		{PriorityHigh, 3, "High", true},
		{PriorityAll, 0, "All", false},
		{Priority("urgent"), 0, "urgent", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.p), func(t *testing.T) {
			assert.Equal(t, tt.weight, tt.p.Weight())
			assert.Equal(t, tt.label, tt.p.Label())
			assert.Equal(t, tt.valid, tt.p.Valid())
		})
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	p, err = ParsePriority("all")
	require.NoError(t, err)
	assert.Equal(t, PriorityAll, p)

	_, err = ParsePriority("urgent")
	require.Error(t, err)
}

func TestStatus_LabelAndParse(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "In progress", StatusInProgress.Label())
	assert.Equal(t, "Completed", StatusCompleted.Label())

	for _, in := range []string{"in-progress", "in_progress", "InProgress"} {
		s, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, StatusInProgress, s)
	}

	_, err := ParseStatus("done")
	require.Error(t, err)
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{name: "date only", in: "2026-03-01", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "iso with millis", in: "2026-03-01T10:30:00.000Z", want: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), ok: true},
		{name: "offset", in: "2026-03-01T12:00:00+02:00", want: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), ok: true},
		{name: "empty", in: "  ", ok: false},
		{name: "garbage", in: "next tuesday", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDueDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	ts := time.Date(2026, 1, 2, 6, 4, 5, 123456789, loc)
	assert.Equal(t, "2026-01-02T03:04:05.123Z", FormatTimestamp(ts))
}

func TestTask_Validate(t *testing.T) {
	base := Task{Title: "Buy milk", Priority: PriorityLow, Status: StatusPending}
	require.NoError(t, base.Validate(3))

	short := base
	short.Title = "  ab  "
	require.Error(t, short.Validate(3))

	badPrio := base
	badPrio.Priority = PriorityAll
	require.Error(t, badPrio.Validate(3))

	badStatus := base
	badStatus.Status = "done"
	require.Error(t, badStatus.Validate(3))

	badDue := base
	badDue.DueDate = "tomorrow"
	require.Error(t, badDue.Validate(3))

	withDue := base
	withDue.DueDate = "2026-12-31"
	require.NoError(t, withDue.Validate(3))
}

func TestTask_JSONKeys(t *testing.T) {
	b, err := json.Marshal(Task{
		ID: "t1", UserID: "u1", Title: "Task One",
		Priority: PriorityHigh, Status: StatusInProgress,
		CreatedAt: "2026-01-01T00:00:00.000Z", UpdatedAt: "2026-01-01T00:00:00.000Z",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id":"t1","userId":"u1","title":"Task One",
		"priority":"high","status":"in-progress",
		"createdAt":"2026-01-01T00:00:00.000Z","updatedAt":"2026-01-01T00:00:00.000Z"
	}`, string(b))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.com "))
}
