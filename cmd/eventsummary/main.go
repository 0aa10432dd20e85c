// Command eventsummary condenses the dashboard audit trail (events.jsonl)
// into a per-session JSON report.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bekirdag/jobdesk/internal/config"
)

type auditEvent struct {
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	JobID     string            `json:"job_id,omitempty"`
	SKU       string            `json:"sku,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

type sessionSummary struct {
	SessionID   string         `json:"session_id"`
	UserID      string         `json:"user_id,omitempty"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	Events      map[string]int `json:"events"`
	JobsTouched []string       `json:"jobs_touched,omitempty"`
	Anomalies   []string       `json:"anomalies,omitempty"`
}

type eventReport struct {
	Source       string           `json:"source"`
	Sessions     []sessionSummary `json:"sessions"`
	Totals       map[string]int   `json:"totals"`
	SkippedLines []int            `json:"skipped_lines,omitempty"`
}

// deleteBurst flags sessions deleting this many jobs or more.
const deleteBurst = 10

func main() {
	var inputPath string
	var outputPath string
	flag.StringVar(&inputPath, "in", filepath.Join(config.Dir(), "events.jsonl"), "audit trail path")
	flag.StringVar(&outputPath, "out", "", "output JSON path (optional, defaults to stdout)")
	flag.Parse()

	file, err := os.Open(inputPath)
	if err != nil {
		exit(err)
	}
	defer file.Close()

	report, err := summarize(file, inputPath)
	if err != nil {
		exit(fmt.Errorf("parse events: %w", err))
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exit(fmt.Errorf("encode report: %w", err))
	}

	if outputPath == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
		exit(fmt.Errorf("write output: %w", err))
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "eventsummary: %v\n", err)
	os.Exit(1)
}

// summarize groups events by session in order of first appearance.
// Malformed lines are skipped and reported by line number.
func summarize(r io.Reader, source string) (eventReport, error) {
	report := eventReport{Source: source, Totals: map[string]int{}}
	sessions := map[string]*sessionSummary{}
	touched := map[string]map[string]bool{}
	var order []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev auditEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Event == "" {
			report.SkippedLines = append(report.SkippedLines, lineNo)
			continue
		}

		s, ok := sessions[ev.SessionID]
		if !ok {
			s = &sessionSummary{SessionID: ev.SessionID, Events: map[string]int{}}
			sessions[ev.SessionID] = s
			touched[ev.SessionID] = map[string]bool{}
			order = append(order, ev.SessionID)
		}
		if s.UserID == "" {
			s.UserID = ev.UserID
		}
		if !ev.Timestamp.IsZero() {
			if s.StartTime.IsZero() || ev.Timestamp.Before(s.StartTime) {
				s.StartTime = ev.Timestamp
			}
			if ev.Timestamp.After(s.EndTime) {
				s.EndTime = ev.Timestamp
			}
		}
		s.Events[ev.Event]++
		report.Totals[ev.Event]++
		if ev.JobID != "" && ev.Event != "job_opened" {
			touched[ev.SessionID][ev.JobID] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return eventReport{}, err
	}
	if lineNo > 0 && len(order) == 0 {
		return report, errors.New("no valid events found")
	}

	for _, id := range order {
		s := sessions[id]
		for jobID := range touched[id] {
			s.JobsTouched = append(s.JobsTouched, jobID)
		}
		sort.Strings(s.JobsTouched)
		s.Anomalies = detectAnomalies(*s)
		report.Sessions = append(report.Sessions, *s)
	}
	return report, nil
}

func detectAnomalies(s sessionSummary) []string {
	var out []string
	if n := s.Events["job_deleted"]; n >= deleteBurst {
		out = append(out, fmt.Sprintf("%d jobs deleted in one session", n))
	}
	if s.Events["session_started"] == 0 {
		out = append(out, "missing session_started event")
	}
	if !s.StartTime.IsZero() && s.EndTime.Sub(s.StartTime) > 24*time.Hour {
		out = append(out, "session longer than 24h")
	}
	return out
}
