package domain

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestInRange_OverlapScenario(t *testing.T) {
	today := time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)
	r := DefaultRange(today)

	tests := []struct {
		name       string
		exp        Experiment
		wantIn     bool
		wantStarts bool
	}{
		{
			name:       "entirely before range",
			exp:        Experiment{StartDate: day(2025, 1, 1), EndDate: day(2025, 2, 1)},
			wantIn:     false,
			wantStarts: false,
		},
		{
			name:       "spans into range",
			exp:        Experiment{StartDate: day(2025, 3, 1), EndDate: day(2026, 2, 1)},
			wantIn:     true,
			wantStarts: false,
		},
		{
			name:       "fully inside",
			exp:        Experiment{StartDate: day(2026, 1, 20), EndDate: day(2026, 2, 10)},
			wantIn:     true,
			wantStarts: true,
		},
		{
			name:       "ends on range start",
			exp:        Experiment{StartDate: day(2025, 1, 1), EndDate: &r.Start},
			wantIn:     true,
			wantStarts: false,
		},
		{
			name:       "starts on range end",
			exp:        Experiment{StartDate: &r.End, EndDate: day(2027, 1, 1)},
			wantIn:     true,
			wantStarts: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRange(&tt.exp, r, IncludeMissing); got != tt.wantIn {
				t.Errorf("InRange() = %v, want %v", got, tt.wantIn)
			}
			if got := StartsInRange(&tt.exp, r); got != tt.wantStarts {
				t.Errorf("StartsInRange() = %v, want %v", got, tt.wantStarts)
			}
		})
	}
}

func TestInRange_MissingDates(t *testing.T) {
	ranges := []DateRange{
		{Start: *day(1990, 1, 1), End: *day(1990, 1, 2)},
		{Start: *day(2026, 1, 1), End: *day(2026, 12, 31)},
	}
	exps := []Experiment{
		{},
		{StartDate: day(2026, 1, 1)},
		{EndDate: day(2026, 1, 1)},
	}

	for _, r := range ranges {
		for i := range exps {
			if !InRange(&exps[i], r, IncludeMissing) {
				t.Errorf("IncludeMissing: record %d should be in %s", i, r)
			}
			if InRange(&exps[i], r, ExcludeMissing) {
				t.Errorf("ExcludeMissing: record %d should not be in %s", i, r)
			}
		}
	}

	if StartsInRange(&exps[0], ranges[1]) {
		t.Error("StartsInRange() without start date should be false")
	}
}

func TestParseMissingDatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MissingDatePolicy
		wantErr bool
	}{
		{"", IncludeMissing, false},
		{"include", IncludeMissing, false},
		{"exclude", ExcludeMissing, false},
		{"sometimes", IncludeMissing, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMissingDatePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusPolicy_DisplayStatus(t *testing.T) {
	now := time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		policy StatusPolicy
		exp    Experiment
		want   string
	}{
		{
			name:   "status is truth keeps running",
			policy: StatusIsTruth,
			exp:    Experiment{StatusClean: StatusRunning, EndDate: day(2025, 12, 1), Result: ResultWinner},
			want:   StatusRunning,
		},
		{
			name:   "date override with outcome",
			policy: DateOverridesStatus,
			exp:    Experiment{StatusClean: StatusRunning, EndDate: day(2025, 12, 1), Result: ResultLoser},
			want:   StatusCompleted,
		},
		{
			name:   "date override without outcome",
			policy: DateOverridesStatus,
			exp:    Experiment{StatusClean: StatusRunning, EndDate: day(2025, 12, 1), Result: ResultUnknown},
			want:   StatusAnalysis,
		},
		{
			name:   "date override future end",
			policy: DateOverridesStatus,
			exp:    Experiment{StatusClean: StatusRunning, EndDate: day(2026, 2, 1)},
			want:   StatusRunning,
		},
		{
			name:   "date override ignores other statuses",
			policy: DateOverridesStatus,
			exp:    Experiment{StatusClean: StatusPlanning, EndDate: day(2025, 2, 1)},
			want:   StatusPlanning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.DisplayStatus(&tt.exp, now); got != tt.want {
				t.Errorf("DisplayStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
