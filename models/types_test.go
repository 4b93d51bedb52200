package models

import (
	"reflect"
	"testing"
)

func TestPercentages(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   []int
	}{
		{"three options", []int{3, 1, 0}, []int{75, 25, 0}},
		{"no votes", []int{0, 0}, []int{0, 0}},
		{"single winner", []int{5}, []int{100}},
		{"even split", []int{2, 2}, []int{50, 50}},
		{"rounding", []int{1, 2}, []int{33, 67}},
		{"empty", []int{}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentages(tt.counts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Percentages(%v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestTallyKey(t *testing.T) {
	if got := TallyKey(2, 3); got != "2_3" {
		t.Errorf("TallyKey(2, 3) = %q, want %q", got, "2_3")
	}
}

func TestTallyAccessors(t *testing.T) {
	tally := Tally{
		"0_0": 3,
		"0_1": 2,
		"1_0": 1,
		"9_9": 7, // orphaned key from a pre-edit structure
	}

	if got := tally.Count(0, 0); got != 3 {
		t.Errorf("Count(0,0) = %d, want 3", got)
	}
	if got := tally.Count(0, 2); got != 0 {
		t.Errorf("Count(0,2) = %d, want 0 for missing key", got)
	}

	counts := tally.QuestionCounts(0, 2)
	if !reflect.DeepEqual(counts, []int{3, 2}) {
		t.Errorf("QuestionCounts(0, 2) = %v, want [3 2]", counts)
	}

	if got := tally.QuestionTotal(0, 2); got != 5 {
		t.Errorf("QuestionTotal(0, 2) = %d, want 5", got)
	}

	// Orphaned keys are excluded from per-question reads but still
	// counted in the raw total.
	if got := tally.Total(); got != 13 {
		t.Errorf("Total() = %d, want 13", got)
	}
}
