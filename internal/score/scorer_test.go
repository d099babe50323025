package score

import (
	"math"
	"testing"

	"github.com/abwagner/nj-affordable-housing/internal/model"
)

func intp(v int) *int { return &v }

func TestConfidence_EmptyRecord(t *testing.T) {
	rec := &model.CommitmentRecord{Municipality: "Cranford"}

	if got := Confidence(rec); got != 0 {
		t.Errorf("expected 0 confidence for empty record, got %v", got)
	}
}

func TestConfidence_FieldWeights(t *testing.T) {
	tests := []struct {
		name string
		rec  model.CommitmentRecord
		want float64
	}{
		{
			name: "total units only",
			rec:  model.CommitmentRecord{TotalUnits: intp(100)},
			want: 0.30,
		},
		{
			name: "type only",
			rec:  model.CommitmentRecord{CommitmentType: model.TypeCOAH},
			want: 0.20,
		},
		{
			name: "deadline only",
			rec:  model.CommitmentRecord{Deadline: "2030"},
			want: 0.10,
		},
		{
			name: "single project name",
			rec:  model.CommitmentRecord{ProjectName: "Riverside Gardens"},
			want: 0.10,
		},
		{
			name: "project name collection",
			rec:  model.CommitmentRecord{ProjectNames: []string{"Riverside Gardens"}},
			want: 0.10,
		},
		{
			name: "low income split",
			rec:  model.CommitmentRecord{LowIncomeUnits: intp(40)},
			want: 0.20,
		},
		{
			name: "moderate income split",
			rec:  model.CommitmentRecord{ModerateIncomeUnits: intp(25)},
			want: 0.20,
		},
		{
			name: "address",
			rec:  model.CommitmentRecord{Addresses: []string{"100 Main Street"}},
			want: 0.10,
		},
		{
			name: "total plus type plus deadline",
			rec: model.CommitmentRecord{
				TotalUnits:     intp(250),
				CommitmentType: model.TypeSettlementAgreement,
				Deadline:       "2029",
			},
			want: 0.60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(&tt.rec)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Confidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfidence_CappedAtOne(t *testing.T) {
	rec := &model.CommitmentRecord{
		TotalUnits:          intp(500),
		CommitmentType:      model.TypeSettlementAgreement,
		Deadline:            "2030",
		ProjectNames:        []string{"Riverside Gardens"},
		LowIncomeUnits:      intp(100),
		ModerateIncomeUnits: intp(80),
		Addresses:           []string{"100 Main Street", "Block 12"},
	}

	if got := Confidence(rec); got != 1.0 {
		t.Errorf("expected cap at 1.0, got %v", got)
	}
}

func TestConfidence_WebPagePathWithoutAddresses(t *testing.T) {
	// The web-page path never populates addresses; everything else present
	// still lands at 0.90 without needing the cap.
	rec := &model.CommitmentRecord{
		TotalUnits:     intp(175),
		CommitmentType: model.TypeSettlementAgreement,
		Deadline:       "2029",
		ProjectName:    "Riverside Gardens",
		LowIncomeUnits: intp(40),
	}

	if got := Confidence(rec); math.Abs(got-0.90) > 1e-9 {
		t.Errorf("expected 0.90, got %v", got)
	}
}
