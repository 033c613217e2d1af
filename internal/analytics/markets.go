package analytics

import (
	"cmp"
	"slices"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/normalize"
)

// MatrixRow lists, per market, the ids of experiments on one page type.
type MatrixRow struct {
	PageType string              `json:"pageType"`
	Cells    map[string][]string `json:"cells"`
}

// Matrix is the page type by market coverage table.
type Matrix struct {
	Markets []string    `json:"markets"`
	Rows    []MatrixRow `json:"rows"`
}

// MarketMatrix pivots experiments into page type rows and market columns.
// Experiments without a page type are not placed.
func MarketMatrix(exps []domain.Experiment) Matrix {
	var markets, pageTypes []string
	for _, e := range exps {
		markets = append(markets, e.Markets...)
		if e.PageType != "" {
			pageTypes = append(pageTypes, e.PageType)
		}
	}
	slices.Sort(markets)
	markets = slices.Compact(markets)
	slices.Sort(pageTypes)
	pageTypes = slices.Compact(pageTypes)

	m := Matrix{Markets: markets, Rows: make([]MatrixRow, len(pageTypes))}
	rowIdx := make(map[string]int, len(pageTypes))
	for i, pt := range pageTypes {
		rowIdx[pt] = i
		cells := make(map[string][]string, len(markets))
		for _, mk := range markets {
			cells[mk] = []string{}
		}
		m.Rows[i] = MatrixRow{PageType: pt, Cells: cells}
	}
	if m.Markets == nil {
		m.Markets = []string{}
	}

	for _, e := range exps {
		i, ok := rowIdx[e.PageType]
		if !ok {
			continue
		}
		for _, mk := range e.Markets {
			m.Rows[i].Cells[mk] = append(m.Rows[i].Cells[mk], e.ID)
		}
	}
	return m
}

// CountryStat is the world-map aggregate for one country.
type CountryStat struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
	Active  int    `json:"active"`
}

// CountryStats counts market mentions per country. An experiment is active
// when its clean status is Live or Planning.
func CountryStats(exps []domain.Experiment) []CountryStat {
	stats := map[string]*CountryStat{}
	for _, e := range exps {
		active := e.StatusClean == domain.StatusLive || e.StatusClean == domain.StatusPlanning
		for _, mk := range e.Markets {
			country := normalize.MarketCountry(mk)
			if country == "" {
				continue
			}
			s, ok := stats[country]
			if !ok {
				s = &CountryStat{Country: country}
				stats[country] = s
			}
			s.Count++
			if active {
				s.Active++
			}
		}
	}

	out := make([]CountryStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b CountryStat) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Country, b.Country)
	})
	return out
}
