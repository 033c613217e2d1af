package analytics

import (
	"cmp"
	"slices"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

const (
	emptyStatus   = "EMPTY"
	statusSamples = 3
)

// StatusQuality summarises schedule coverage for one clean status.
type StatusQuality struct {
	Status    string   `json:"status"`
	Count     int      `json:"count"`
	HasDates  int      `json:"hasDates"`
	NoDates   int      `json:"noDates"`
	SampleIDs []string `json:"sampleIds"`
}

// QualityReport lists data-quality findings for one window.
type QualityReport struct {
	// Outcomes that overlap the window although they started before it.
	WinnersCarriedOver []string        `json:"winnersCarriedOver"`
	LosersCarriedOver  []string        `json:"losersCarriedOver"`
	MissingStart       int             `json:"missingStart"`
	MissingEnd         int             `json:"missingEnd"`
	MissingBoth        int             `json:"missingBoth"`
	Statuses           []StatusQuality `json:"statuses"`
}

// Quality inspects exps against r.
func Quality(exps []domain.Experiment, r domain.DateRange) QualityReport {
	rep := QualityReport{WinnersCarriedOver: []string{}, LosersCarriedOver: []string{}}
	statuses := map[string]*StatusQuality{}

	for i := range exps {
		e := &exps[i]

		switch {
		case e.StartDate == nil && e.EndDate == nil:
			rep.MissingBoth++
		case e.StartDate == nil:
			rep.MissingStart++
		case e.EndDate == nil:
			rep.MissingEnd++
		}

		if e.HasSchedule() && domain.InRange(e, r, domain.ExcludeMissing) && !domain.StartsInRange(e, r) {
			switch e.Result {
			case domain.ResultWinner:
				rep.WinnersCarriedOver = append(rep.WinnersCarriedOver, e.Code)
			case domain.ResultLoser:
				rep.LosersCarriedOver = append(rep.LosersCarriedOver, e.Code)
			}
		}

		name := e.StatusClean
		if name == "" {
			name = emptyStatus
		}
		s, ok := statuses[name]
		if !ok {
			s = &StatusQuality{Status: name, SampleIDs: []string{}}
			statuses[name] = s
		}
		s.Count++
		if e.StartDate != nil || e.EndDate != nil {
			s.HasDates++
		} else {
			s.NoDates++
		}
		if len(s.SampleIDs) < statusSamples {
			s.SampleIDs = append(s.SampleIDs, e.ID)
		}
	}

	rep.Statuses = make([]StatusQuality, 0, len(statuses))
	for _, s := range statuses {
		rep.Statuses = append(rep.Statuses, *s)
	}
	slices.SortFunc(rep.Statuses, func(a, b StatusQuality) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Status, b.Status)
	})
	return rep
}
