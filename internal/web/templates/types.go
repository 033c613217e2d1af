package templates

import "time"

// FilterBar is the state of the global filter form.
type FilterBar struct {
	Start      string
	End        string
	Workstream string
	PageType   string
	Status     string
	Market     string
	Search     string
	Missing    string

	Workstreams []string
	PageTypes   []string
	Statuses    []string
	Markets     []string
}

// Distribution is one named count of a chart.
type Distribution struct {
	Name  string
	Value int
}

type OverviewPage struct {
	Filters     FilterBar
	BuiltAt     time.Time
	Total       int
	Completed   int
	Winners     int
	WinRate     int
	Workstreams []Distribution
	PageTypes   []Distribution
	Results     []Distribution
	Phases      []Distribution
}

// ExperimentRow is one line of the repository table.
type ExperimentRow struct {
	ID          string
	Code        string
	Title       string
	Status      string
	Result      string
	Start       string
	End         string
	Markets     string
	PageType    string
	Workstream  string
	URL         string
	IsOverdue   bool
	IsDelayed   bool
	IsCompleted bool
}

type RepositoryPage struct {
	Filters FilterBar
	BuiltAt time.Time
	Rows    []ExperimentRow
}
