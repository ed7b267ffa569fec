package domain

import "sort"

// Job is one job classification. The set is reference data seeded by
// migration.
type Job struct {
	ID        int64  `json:"jobId" db:"id"`
	JobGroup  string `json:"jobGroup" db:"job_group"`
	JobName   string `json:"jobName" db:"job_name"`
	SortOrder int    `json:"order" db:"sort_order"`
}

// JobTable is an immutable lookup of job classifications, loaded once at
// startup and shared read-only between requests.
type JobTable struct {
	byID  map[int64]Job
	byKey map[string]Job
	all   []Job
}

// NewJobTable builds a table from the given rows.
func NewJobTable(jobs []Job) *JobTable {
	t := &JobTable{
		byID:  make(map[int64]Job, len(jobs)),
		byKey: make(map[string]Job, len(jobs)),
		all:   make([]Job, len(jobs)),
	}
	copy(t.all, jobs)
	sort.SliceStable(t.all, func(i, j int) bool {
		if t.all[i].JobGroup != t.all[j].JobGroup {
			return t.all[i].JobGroup < t.all[j].JobGroup
		}
		return t.all[i].SortOrder < t.all[j].SortOrder
	})
	for _, j := range t.all {
		t.byID[j.ID] = j
		t.byKey[j.JobGroup+"/"+j.JobName] = j
	}
	return t
}

// ByID returns the job with the given id.
func (t *JobTable) ByID(id int64) (Job, bool) {
	j, ok := t.byID[id]
	return j, ok
}

// Find resolves a (group, name) pair.
func (t *JobTable) Find(group, name string) (Job, bool) {
	j, ok := t.byKey[group+"/"+name]
	return j, ok
}

// HasGroup reports whether any job belongs to group.
func (t *JobTable) HasGroup(group string) bool {
	for _, j := range t.all {
		if j.JobGroup == group {
			return true
		}
	}
	return false
}

// All returns a copy of every job ordered by group then sort order.
func (t *JobTable) All() []Job {
	out := make([]Job, len(t.all))
	copy(out, t.all)
	return out
}
