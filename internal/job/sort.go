package job

import (
	"slices"
	"time"
)

// SortByCreatedDesc returns a copy of jobs ordered newest first. Equal
// timestamps keep their input order; unparsable timestamps sort last.
func SortByCreatedDesc(jobs []Job) []Job {
	out := slices.Clone(jobs)
	keys := make(map[string]time.Time, len(out))
	valid := make(map[string]bool, len(out))
	for _, j := range out {
		if _, seen := keys[j.CreateAt]; seen {
			continue
		}
		ts, ok := j.CreatedTime()
		keys[j.CreateAt] = ts
		valid[j.CreateAt] = ok
	}
	slices.SortStableFunc(out, func(a, b Job) int {
		aOK, bOK := valid[a.CreateAt], valid[b.CreateAt]
		switch {
		case !aOK && !bOK:
			return 0
		case !aOK:
			return 1
		case !bOK:
			return -1
		}
		return keys[b.CreateAt].Compare(keys[a.CreateAt])
	})
	return out
}

// IndexByID returns the position of the job with id, or -1.
func IndexByID(jobs []Job, id string) int {
	return slices.IndexFunc(jobs, func(j Job) bool { return j.ID == id })
}

// CountByStatus tallies jobs per status.
func CountByStatus(jobs []Job) map[Status]int {
	counts := make(map[Status]int, 3)
	for _, j := range jobs {
		counts[j.Status]++
	}
	return counts
}
