package service

import (
	"strings"
	"time"

	"garage-tracker/internal/entity"
)

// Workflow-status filter values for listing queries.
const (
	FilterAll      = "all"
	FilterFinished = "finished"
)

const defaultPageSize = 10

type JobsQuery struct {
	Search   string
	CarType  string
	Status   string // "", all, claim, repair, billing, finished
	From     string // YYYY-MM-DD, inclusive, against the job start date
	To       string
	Page     int
	PageSize int
}

type JobsSummary struct {
	Total    int `json:"total"`
	Claim    int `json:"claim"`
	Repair   int `json:"repair"`
	Billing  int `json:"billing"`
	Finished int `json:"finished"`
}

type JobsPage struct {
	Items      []entity.Job `json:"items"`
	TotalItems int          `json:"totalItems"`
	Summary    JobsSummary  `json:"summary"`
}

// QueryJobs filters, summarizes and paginates the collection for listing
// views. Pure over its input: the jobs slice is never mutated and the
// returned page holds a fresh items slice.
//
// The summary is computed over the search+type+date base, before the
// status filter, so the dashboard counters stay stable while the user
// switches status tabs.
func QueryJobs(jobs []entity.Job, q JobsQuery) JobsPage {
	base := make([]entity.Job, 0, len(jobs))
	for _, j := range jobs {
		if matchesSearch(j, q.Search) && matchesCarType(j, q.CarType) && matchesDateRange(j, q.From, q.To) {
			base = append(base, j)
		}
	}

	summary := JobsSummary{Total: len(base)}
	for _, j := range base {
		if j.IsFinished {
			summary.Finished++
			continue
		}
		switch j.CurrentStageID() {
		case entity.StageClaim:
			summary.Claim++
		case entity.StageRepair:
			summary.Repair++
		case entity.StageBilling:
			summary.Billing++
		}
	}

	filtered := base
	if q.Status != "" && q.Status != FilterAll {
		filtered = make([]entity.Job, 0, len(base))
		for _, j := range base {
			if matchesStatus(j, q.Status) {
				filtered = append(filtered, j)
			}
		}
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = defaultPageSize
	}

	start := (page - 1) * size
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}

	items := make([]entity.Job, end-start)
	copy(items, filtered[start:end])

	return JobsPage{
		Items:      items,
		TotalItems: len(filtered),
		Summary:    summary,
	}
}

func matchesSearch(j entity.Job, term string) bool {
	if term == "" {
		return true
	}
	// Plates are matched with whitespace stripped on both sides so
	// "1กข 1234" finds "1กข1234" and vice versa.
	squash := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "")
	}
	queryNoSpace := squash(term)
	query := strings.ToLower(strings.TrimSpace(term))

	if strings.Contains(squash(j.Registration), queryNoSpace) {
		return true
	}
	for _, field := range []string{j.CustomerName, j.Brand, j.Model, j.BagNumber} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesCarType(j entity.Job, carType string) bool {
	if carType == "" || carType == FilterAll {
		return true
	}
	return j.Type == carType
}

func matchesStatus(j entity.Job, status string) bool {
	if status == FilterFinished {
		return j.IsFinished
	}
	return !j.IsFinished && string(j.CurrentStageID()) == status
}

func matchesDateRange(j entity.Job, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	start, err := time.Parse(dateLayout, j.StartDate)
	if err != nil {
		return false
	}
	if from != "" {
		if lo, err := time.Parse(dateLayout, from); err == nil && start.Before(lo) {
			return false
		}
	}
	if to != "" {
		if hi, err := time.Parse(dateLayout, to); err == nil && start.After(hi) {
			return false
		}
	}
	return true
}
