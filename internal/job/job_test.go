package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "pending", want: StatusPending},
		{in: "inProgress", want: StatusInProgress},
		{in: "in-progress", want: StatusInProgress},
		{in: "In Progress", want: StatusInProgress},
		{in: " completed ", want: StatusCompleted},
		{in: "done", want: StatusCompleted},
		{in: "cancelled", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("Completed").Valid())
	assert.False(t, Status("").Valid())
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2024-03-05T10:20:30.123Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 20, 30, 123000000, time.UTC), ts.UTC())

	ts, ok = ParseTimestamp("2024-03-05T10:20:30+02:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 20, 30, 0, time.UTC), ts.UTC())

	ts, ok = ParseTimestamp("2024-03-05")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("2024-03-05T10:20:30")
	require.True(t, ok)
	assert.Equal(t, time.Local, ts.Location())

	_, ok = ParseTimestamp("yesterday")
	assert.False(t, ok)
	_, ok = ParseTimestamp("  ")
	assert.False(t, ok)
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	in := time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC)
	out, ok := ParseTimestamp(FormatTimestamp(in))
	require.True(t, ok)
	assert.True(t, in.Equal(out))
}

func TestPresentationFor(t *testing.T) {
	tests := []struct {
		status Status
		color  string
		icon   string
		class  string
	}{
		{StatusPending, "warn", "schedule", "pending"},
		{StatusInProgress, "accent", "hourglass_empty", "in-progress"},
		{StatusCompleted, "primary", "check_circle", "completed"},
		{Status("Completed"), "", "info", ""},
		{Status(""), "", "info", ""},
	}
	for _, tt := range tests {
		p := PresentationFor(tt.status)
		assert.Equal(t, tt.color, p.Color, "color for %q", tt.status)
		assert.Equal(t, tt.icon, p.Icon, "icon for %q", tt.status)
		assert.Equal(t, tt.class, p.Class, "class for %q", tt.status)
	}
	assert.Equal(t, "In Progress", PresentationFor(StatusInProgress).Label)
	assert.Equal(t, "archived", PresentationFor("archived").Label)
}

func TestSortByCreatedDesc(t *testing.T) {
	jobs := []Job{
		{ID: "a", CreateAt: "2024-01-01T00:00:00Z"},
		{ID: "bad", CreateAt: "not a date"},
		{ID: "b", CreateAt: "2024-01-03T00:00:00Z"},
		{ID: "c", CreateAt: "2024-01-02T00:00:00Z"},
		{ID: "d", CreateAt: "2024-01-03T00:00:00Z"},
	}
	sorted := SortByCreatedDesc(jobs)

	ids := make([]string, len(sorted))
	for i, j := range sorted {
		ids[i] = j.ID
	}
	assert.Equal(t, []string{"b", "d", "c", "a", "bad"}, ids)
	assert.Equal(t, "a", jobs[0].ID, "input must not be reordered")
}

func TestSortByCreatedDescStableForEqualTimestamps(t *testing.T) {
	var jobs []Job
	for _, id := range []string{"1", "2", "3", "4"} {
		jobs = append(jobs, Job{ID: id, CreateAt: "2024-05-01T12:00:00Z"})
	}
	sorted := SortByCreatedDesc(jobs)
	assert.Equal(t, jobs, sorted)
}

func TestIndexByIDAndCount(t *testing.T) {
	jobs := []Job{
		{ID: "1", Status: StatusPending},
		{ID: "2", Status: StatusCompleted},
		{ID: "3", Status: StatusPending},
	}
	assert.Equal(t, 1, IndexByID(jobs, "2"))
	assert.Equal(t, -1, IndexByID(jobs, "9"))

	counts := CountByStatus(jobs)
	assert.Equal(t, 2, counts[StatusPending])
	assert.Equal(t, 1, counts[StatusCompleted])
	assert.Equal(t, 0, counts[StatusInProgress])
}
