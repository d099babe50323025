// Package validate checks commitment record invariants before persistence.
// The engine upholds these by construction; the validator catches records
// assembled or mutated elsewhere (imports, manual fixes).
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/abwagner/nj-affordable-housing/internal/model"
)

var yearRe = regexp.MustCompile(`^\d{4}$`)

// Validator validates commitment records against the field bounds.
type Validator struct {
	year int
}

// NewValidator creates a validator anchored on the given reference year for
// the deadline window. Zero means the current year.
func NewValidator(year int) *Validator {
	if year == 0 {
		year = time.Now().Year()
	}
	return &Validator{year: year}
}

// Validate returns the first invariant violation found, or nil.
func (v *Validator) Validate(rec *model.CommitmentRecord) error {
	if rec.Municipality == "" {
		return fmt.Errorf("municipality is required")
	}

	for name, val := range rec.UnitFields() {
		if val == nil {
			continue
		}
		if *val <= 0 || *val >= model.UnitBoundMax {
			return fmt.Errorf("%s out of range: %d", name, *val)
		}
	}

	if rec.Deadline != "" {
		if !yearRe.MatchString(rec.Deadline) {
			return fmt.Errorf("deadline is not a 4-digit year: %q", rec.Deadline)
		}
		y, err := strconv.Atoi(rec.Deadline)
		if err != nil {
			return fmt.Errorf("deadline parse: %w", err)
		}
		if y < v.year-1 || y > v.year+15 {
			return fmt.Errorf("deadline %d outside [%d, %d]", y, v.year-1, v.year+15)
		}
	}

	if rec.Confidence < 0 || rec.Confidence > 1 {
		return fmt.Errorf("confidence out of bounds: %v", rec.Confidence)
	}

	return nil
}
