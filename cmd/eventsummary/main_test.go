package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trail = `{"session_id":"a","user_id":"alice","timestamp":"2024-03-10T08:00:00Z","event":"session_started"}
{"session_id":"a","timestamp":"2024-03-10T08:01:00Z","event":"job_opened","job_id":"1","sku":"WH-1"}
{"session_id":"a","timestamp":"2024-03-10T08:02:00Z","event":"job_status_changed","job_id":"1","extra":{"status":"completed"}}
not json
{"session_id":"b","user_id":"bob","timestamp":"2024-03-10T09:00:00Z","event":"job_deleted","job_id":"2"}

{"session_id":"a","timestamp":"2024-03-10T08:03:00Z","event":"job_deleted","job_id":"3"}
`

func TestSummarizeGroupsBySession(t *testing.T) {
	report, err := summarize(strings.NewReader(trail), "events.jsonl")
	require.NoError(t, err)

	assert.Equal(t, []int{4}, report.SkippedLines)
	assert.Equal(t, 2, report.Totals["job_deleted"])
	require.Len(t, report.Sessions, 2)

	a := report.Sessions[0]
	assert.Equal(t, "a", a.SessionID)
	assert.Equal(t, "alice", a.UserID)
	assert.Equal(t, 1, a.Events["job_status_changed"])
	assert.Equal(t, []string{"1", "3"}, a.JobsTouched)
	assert.Equal(t, "2024-03-10T08:03:00Z", a.EndTime.UTC().Format("2006-01-02T15:04:05Z"))
	assert.Empty(t, a.Anomalies)

	b := report.Sessions[1]
	assert.Equal(t, []string{"missing session_started event"}, b.Anomalies)
}

func TestSummarizeFlagsDeleteBursts(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"session_id":"s","timestamp":"2024-03-10T08:00:00Z","event":"session_started"}` + "\n")
	for i := 0; i < deleteBurst; i++ {
		fmt.Fprintf(&b, `{"session_id":"s","timestamp":"2024-03-10T08:%02d:00Z","event":"job_deleted","job_id":"%d"}`+"\n", i+1, i)
	}

	report, err := summarize(strings.NewReader(b.String()), "x")
	require.NoError(t, err)
	require.Len(t, report.Sessions, 1)
	assert.Contains(t, report.Sessions[0].Anomalies, "10 jobs deleted in one session")
}

func TestSummarizeRejectsGarbage(t *testing.T) {
	_, err := summarize(strings.NewReader("garbage\nmore garbage\n"), "x")
	assert.Error(t, err)

	report, err := summarize(strings.NewReader(""), "empty")
	require.NoError(t, err)
	assert.Empty(t, report.Sessions)
}
