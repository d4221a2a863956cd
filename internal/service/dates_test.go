package service

import (
	"errors"
	"testing"
	"time"

	"CultureSync/internal/model"
)

func TestDateSynthesizerApply(t *testing.T) {
	today := day(2025, 3, 1)
	windowEnd := day(2027, 3, 1) // today + 730 days

	tests := []struct {
		name      string
		in        model.EventCandidate
		wantStart *time.Time
		wantEnd   *time.Time
		wantSkip  bool
	}{
		{
			name:      "exhibition without dates is ongoing",
			in:        model.EventCandidate{Title: "Color Field", EventType: model.EventTypeExhibition},
			wantStart: &today,
			wantEnd:   &windowEnd,
		},
		{
			name:      "ongoing keyword in description",
			in:        model.EventCandidate{Title: "Color Field", EventType: model.EventTypeDefault, Description: strPtr("An ongoing installation")},
			wantStart: &today,
			wantEnd:   &windowEnd,
		},
		{
			name:      "always on view in title",
			in:        model.EventCandidate{Title: "Temple of Dendur (Always on View)"},
			wantStart: &today,
			wantEnd:   &windowEnd,
		},
		{
			name:      "placeholder end keeps earlier start",
			in:        model.EventCandidate{Title: "Collection", StartDate: datePtr(2020, 1, 1), EndDate: datePtr(2099, 12, 31)},
			wantStart: datePtr(2020, 1, 1),
			wantEnd:   &windowEnd,
		},
		{
			name:      "placeholder end with future start starts today",
			in:        model.EventCandidate{Title: "Collection", StartDate: datePtr(2025, 6, 1), EndDate: datePtr(2100, 1, 1)},
			wantStart: &today,
			wantEnd:   &windowEnd,
		},
		{
			name:      "placeholder end without start",
			in:        model.EventCandidate{Title: "Collection", EndDate: datePtr(9999, 12, 31)},
			wantStart: &today,
			wantEnd:   &windowEnd,
		},
		{
			name:      "regular dates pass through",
			in:        model.EventCandidate{Title: "Talk", StartDate: datePtr(2025, 4, 2), EndDate: datePtr(2025, 4, 3)},
			wantStart: datePtr(2025, 4, 2),
			wantEnd:   datePtr(2025, 4, 3),
		},
		{
			name:      "start only",
			in:        model.EventCandidate{Title: "Talk", StartDate: datePtr(2025, 4, 2)},
			wantStart: datePtr(2025, 4, 2),
		},
		{
			name:      "end before start is dropped",
			in:        model.EventCandidate{Title: "Talk", StartDate: datePtr(2025, 4, 2), EndDate: datePtr(2025, 4, 1)},
			wantStart: datePtr(2025, 4, 2),
		},
		{
			name:     "plain event without start",
			in:       model.EventCandidate{Title: "Talk", EventType: model.EventTypeDefault},
			wantSkip: true,
		},
		{
			name:     "exhibition with end date only",
			in:       model.EventCandidate{Title: "Show", EventType: model.EventTypeExhibition, EndDate: datePtr(2025, 5, 1)},
			wantSkip: true,
		},
	}

	s := NewDateSynthesizer(0, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			err := s.Apply(&c, testNow)
			if tt.wantSkip {
				var ve *ValidationError
				if !errors.As(err, &ve) || ve.Reason != SkipNoStartDate {
					t.Fatalf("expected no_start_date, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			assertDate(t, "start_date", c.StartDate, tt.wantStart)
			assertDate(t, "end_date", c.EndDate, tt.wantEnd)
		})
	}
}

func TestDateSynthesizerCustomWindow(t *testing.T) {
	s := NewDateSynthesizer(30, 2)
	c := model.EventCandidate{Title: "Show", EventType: model.EventTypeExhibition}
	if err := s.Apply(&c, testNow); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	assertDate(t, "end_date", c.EndDate, datePtr(2025, 3, 31))

	// three years out is beyond a two-year horizon
	c = model.EventCandidate{Title: "Show", StartDate: datePtr(2025, 1, 1), EndDate: datePtr(2028, 3, 2)}
	if err := s.Apply(&c, testNow); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	assertDate(t, "end_date", c.EndDate, datePtr(2025, 3, 31))
}

func TestDateSynthesizerMarksSynthesizedStart(t *testing.T) {
	s := NewDateSynthesizer(0, 0)
	tests := []struct {
		name string
		in   model.EventCandidate
		want bool
	}{
		{"ongoing exhibition", model.EventCandidate{Title: "Color Field", EventType: model.EventTypeExhibition}, true},
		{"placeholder end without start", model.EventCandidate{Title: "Collection", EndDate: datePtr(9999, 12, 31)}, true},
		{"placeholder end keeps earlier start", model.EventCandidate{Title: "Collection", StartDate: datePtr(2020, 1, 1), EndDate: datePtr(2099, 12, 31)}, false},
		{"regular dates", model.EventCandidate{Title: "Talk", StartDate: datePtr(2025, 4, 2)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			if err := s.Apply(&c, testNow); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if (c.SynthesizedOn != nil) != tt.want {
				t.Fatalf("synthesized = %v, want %v", c.SynthesizedOn != nil, tt.want)
			}
			if tt.want {
				assertDate(t, "synthesized_on", c.SynthesizedOn, datePtr(2025, 3, 1))
			}
		})
	}
}

func assertDate(t *testing.T, field string, got, want *time.Time) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s = %v, want %v", field, got, want)
	case !got.Equal(*want):
		t.Errorf("%s = %s, want %s", field, got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}
