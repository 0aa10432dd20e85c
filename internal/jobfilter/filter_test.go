package jobfilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/jobdesk/internal/job"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
	return &t
}

func sampleJobs() []job.Job {
	return []job.Job{
		{ID: "1", Status: job.StatusPending, CreateAt: "2024-06-01T08:00:00Z"},
		{ID: "2", Status: job.StatusCompleted, CreateAt: "2024-06-02T23:59:59Z"},
		{ID: "3", Status: job.StatusInProgress, CreateAt: "2024-06-03T00:00:00Z"},
		{ID: "4", Status: job.StatusCompleted, CreateAt: "2024-06-05T12:00:00Z"},
		{ID: "5", Status: job.StatusPending, CreateAt: "garbage"},
	}
}

func ids(jobs []job.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "default keeps everything", criteria: Default(), want: []string{"1", "2", "3", "4", "5"}},
		{name: "status only", criteria: Criteria{Status: Select(job.StatusCompleted)}, want: []string{"2", "4"}},
		{name: "start only", criteria: Criteria{Status: All, Start: day(2024, 6, 3)}, want: []string{"3", "4"}},
		{name: "end only includes the whole day", criteria: Criteria{Status: All, End: day(2024, 6, 2)}, want: []string{"1", "2"}},
		{name: "closed range", criteria: Criteria{Status: All, Start: day(2024, 6, 2), End: day(2024, 6, 3)}, want: []string{"2", "3"}},
		{name: "status and range", criteria: Criteria{Status: Select(job.StatusPending), Start: day(2024, 6, 1), End: day(2024, 6, 30)}, want: []string{"1"}},
		{name: "empty range", criteria: Criteria{Status: All, Start: day(2024, 6, 10), End: day(2024, 6, 1)}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleJobs(), tt.criteria)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyEndOfDayExcludesFractionalLastSecond(t *testing.T) {
	jobs := []job.Job{
		{ID: "edge", Status: job.StatusPending, CreateAt: "2024-06-02T23:59:59.500Z"},
	}
	got := Apply(jobs, Criteria{Status: All, End: day(2024, 6, 2)})
	assert.Empty(t, got)
}

func TestApplyUsesBoundLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2024, 6, 2, 0, 0, 0, 0, loc)
	jobs := []job.Job{
		// 2024-06-01T22:00Z is 2024-06-02T01:00 in UTC+3.
		{ID: "late", Status: job.StatusPending, CreateAt: "2024-06-01T22:00:00Z"},
		{ID: "early", Status: job.StatusPending, CreateAt: "2024-06-01T20:00:00Z"},
	}
	got := Apply(jobs, Criteria{Status: All, Start: &start})
	assert.Equal(t, []string{"late"}, ids(got))
}

func TestApplyIsSubsequenceAndIdempotent(t *testing.T) {
	all := sampleJobs()
	criteria := []Criteria{
		Default(),
		{Status: Select(job.StatusCompleted)},
		{Status: All, Start: day(2024, 6, 2)},
		{Status: Select(job.StatusPending), End: day(2024, 6, 4)},
	}
	for _, c := range criteria {
		once := Apply(all, c)
		twice := Apply(once, c)
		assert.Equal(t, once, twice, c.String())

		pos := 0
		for _, j := range once {
			for pos < len(all) && all[pos].ID != j.ID {
				pos++
			}
			require.Less(t, pos, len(all), "%s is not a subsequence", c.String())
			assert.True(t, Match(j, c))
			pos++
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	all := sampleJobs()
	before := ids(all)
	_ = Apply(all, Criteria{Status: Select(job.StatusCompleted)})
	assert.Equal(t, before, ids(all))
}

func TestSelectorNextCycles(t *testing.T) {
	s := All
	var seen []StatusSelector
	for range 4 {
		s = s.Next()
		seen = append(seen, s)
	}
	assert.Equal(t, []StatusSelector{"pending", "inProgress", "completed", All}, seen)
}

func TestParseSelector(t *testing.T) {
	s, err := ParseSelector("")
	require.NoError(t, err)
	assert.Equal(t, All, s)

	s, err = ParseSelector("ALL")
	require.NoError(t, err)
	assert.Equal(t, All, s)

	s, err = ParseSelector("in-progress")
	require.NoError(t, err)
	assert.Equal(t, Select(job.StatusInProgress), s)

	_, err = ParseSelector("archived")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate(" 2024-02-29 ", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *d)

	_, err = ParseDate("29/02/2024", time.UTC)
	assert.Error(t, err)
}

func TestCriteriaIsZero(t *testing.T) {
	assert.True(t, Default().IsZero())
	assert.True(t, Criteria{}.IsZero())
	assert.False(t, Criteria{Status: Select(job.StatusPending)}.IsZero())
	assert.False(t, Criteria{Status: All, End: day(2024, 1, 1)}.IsZero())
}

func TestOptions(t *testing.T) {
	opts := Options()
	require.Len(t, opts, 4)
	assert.Equal(t, Option{Value: All, Label: "All Jobs", Icon: "list"}, opts[0])
	assert.Equal(t, Option{Value: "inProgress", Label: "In Progress", Icon: "hourglass_empty"}, opts[2])
}
