package analytics

import (
	"github.com/emiliopalmerini/crodash/internal/domain"
)

// PlanningColumn is one kanban lane.
type PlanningColumn struct {
	Phase       string
	Experiments []domain.Experiment
}

// Board is the planning kanban. Columns follow domain.PlanningPhases and are
// present even when empty.
type Board struct {
	Columns []PlanningColumn
}

// Counts returns the per-phase totals in board order.
func (b Board) Counts() []Count {
	out := make([]Count, len(b.Columns))
	for i, c := range b.Columns {
		out[i] = Count{Name: c.Phase, Value: len(c.Experiments)}
	}
	return out
}

// Planning groups experiments by display status. Records whose status is not
// a planning phase are left off the board.
func Planning(exps []domain.Experiment) Board {
	idx := make(map[string]int, len(domain.PlanningPhases))
	b := Board{Columns: make([]PlanningColumn, len(domain.PlanningPhases))}
	for i, phase := range domain.PlanningPhases {
		idx[phase] = i
		b.Columns[i] = PlanningColumn{Phase: phase, Experiments: []domain.Experiment{}}
	}
	for _, e := range exps {
		if i, ok := idx[e.DisplayStatus]; ok {
			b.Columns[i].Experiments = append(b.Columns[i].Experiments, e)
		}
	}
	return b
}
