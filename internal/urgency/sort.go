package urgency

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/todue/internal/models"
)

// Order selects how a task list is sorted for display
type Order int

const (
	OrderDeadline Order = iota
	OrderUrgency
)

func (o Order) String() string {
	if o == OrderUrgency {
		return "urgency"
	}
	return "deadline"
}

// ParseOrder converts a flag value to an Order. Empty means deadline order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deadline", "date":
		return OrderDeadline, nil
	case "urgency", "color", "colour":
		return OrderUrgency, nil
	default:
		return OrderDeadline, fmt.Errorf("unknown sort order %q, use deadline or urgency", s)
	}
}

// Sort returns a sorted copy of tasks. Both orders are stable.
func Sort(tasks []models.Task, order Order, today time.Time) []models.Task {
	if order == OrderUrgency {
		return SortByUrgency(tasks, today)
	}
	return SortByDeadline(tasks)
}

// SortByDeadline orders by deadline ascending, then priority descending.
// Malformed deadlines go after every valid date.
func SortByDeadline(tasks []models.Task) []models.Task {
	type key struct {
		valid bool
		date  time.Time
		rank  int
	}
	keys := make([]key, len(tasks))
	idx := make([]int, len(tasks))
	for i, t := range tasks {
		d, err := ParseDeadline(t.Deadline)
		keys[i] = key{valid: err == nil, date: d, rank: t.Priority.Rank()}
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.valid != kb.valid {
			return ka.valid
		}
		if !ka.date.Equal(kb.date) {
			return ka.date.Before(kb.date)
		}
		return ka.rank > kb.rank
	})
	return pick(tasks, idx)
}

// SortByUrgency orders by urgency rank, keeping input order for ties
func SortByUrgency(tasks []models.Task, today time.Time) []models.Task {
	ranks := make([]int, len(tasks))
	idx := make([]int, len(tasks))
	for i, t := range tasks {
		ranks[i] = Classify(t, today).Rank()
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return ranks[idx[a]] < ranks[idx[b]]
	})

	return pick(tasks, idx)
}

func pick(tasks []models.Task, idx []int) []models.Task {
	sorted := make([]models.Task, len(idx))
	for i, k := range idx {
		sorted[i] = tasks[k]
	}
	return sorted
}

// Filter keeps tasks whose title contains query, ignoring case.
// An empty query keeps everything.
func Filter(tasks []models.Task, query string) []models.Task {
	query = strings.ToLower(query)
	if query == "" {
		return append([]models.Task(nil), tasks...)
	}
	var out []models.Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), query) {
			out = append(out, t)
		}
	}
	return out
}
