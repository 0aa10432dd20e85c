package devserver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bekirdag/jobdesk/internal/job"
)

type seedJob struct {
	sku     string
	status  job.Status
	user    string
	age     time.Duration
	details string
}

var seedJobs = []seedJob{
	{"WH-1001", job.StatusPending, "alice", 2 * time.Hour, "Pick **12 units** from aisle 4, bay C."},
	{"WH-1002", job.StatusInProgress, "bob", 5 * time.Hour, "Restock pallet rack B2.\n\n- check expiry dates\n- rotate stock"},
	{"WH-1003", job.StatusCompleted, "carol", 26 * time.Hour, "Cycle count for zone A."},
	{"WH-1004", job.StatusPending, "dave", 30 * time.Hour, "Prepare outbound order `SO-5521` for carrier pickup."},
	{"WH-1005", job.StatusCompleted, "alice", 50 * time.Hour, "Receive inbound shipment, 3 pallets."},
	{"WH-1006", job.StatusInProgress, "erin", 74 * time.Hour, "Relabel damaged cartons in returns area."},
}

// Seed fills an empty store with demo jobs created relative to now. It
// returns how many jobs were inserted.
func Seed(ctx context.Context, s *Store, now time.Time) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, sj := range seedJobs {
		_, err := s.Create(ctx, job.Job{
			ID:           uuid.NewString(),
			SKU:          sj.sku,
			Status:       sj.status,
			AssignedUser: sj.user,
			CreateAt:     job.FormatTimestamp(now.Add(-sj.age)),
			Details:      sj.details,
		})
		if err != nil {
			return 0, fmt.Errorf("seed %s: %w", sj.sku, err)
		}
	}
	return len(seedJobs), nil
}
