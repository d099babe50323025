// Package score derives the confidence value of a commitment record from
// which fields were successfully populated. The score is recomputed from
// final field state, never carried forward.
package score

import "github.com/abwagner/nj-affordable-housing/internal/model"

// Additive weights per populated field group, in hundredths. Summing in
// integers keeps a fully populated record at exactly 1.0 instead of a float
// accumulation landing a hair under the cap. A record does not need every
// signal to reach full confidence.
const (
	weightTotalUnits     = 30
	weightCommitmentType = 20
	weightDeadline       = 10
	weightProjectName    = 10
	weightIncomeSplit    = 20
	weightAddress        = 10
)

// Confidence computes the bounded [0, 1] confidence score for a record.
func Confidence(rec *model.CommitmentRecord) float64 {
	c := 0
	if rec.TotalUnits != nil {
		c += weightTotalUnits
	}
	if rec.CommitmentType != "" {
		c += weightCommitmentType
	}
	if rec.Deadline != "" {
		c += weightDeadline
	}
	if rec.FirstProjectName() != "" {
		c += weightProjectName
	}
	if rec.LowIncomeUnits != nil || rec.ModerateIncomeUnits != nil {
		c += weightIncomeSplit
	}
	if len(rec.Addresses) > 0 {
		c += weightAddress
	}
	if c > 100 {
		c = 100
	}
	return float64(c) / 100
}
