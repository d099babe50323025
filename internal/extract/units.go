package extract

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/abwagner/nj-affordable-housing/internal/model"
)

// scanExclusions collects every integer captured inside tentative language
// ("up to 500", "may include 120", ...) across the whole text. The blacklist
// is document-scoped: a number flagged once is excluded from unit extraction
// everywhere, even far from the tentative phrase.
func (e *Engine) scanExclusions(lower string) map[int]struct{} {
	excluded := make(map[int]struct{})
	for _, re := range e.rules.ExclusionPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if len(m) < 2 {
				continue
			}
			if v, err := strconv.Atoi(m[1]); err == nil {
				excluded[v] = struct{}{}
			}
		}
	}
	return excluded
}

// extractTotal runs the single-category table used on the web-page path.
func (e *Engine) extractTotal(lower string, excluded map[int]struct{}) *int {
	return bestValue(e.rules.TotalUnitPatterns, lower, excluded)
}

// extractCategoryUnits runs each category's pattern table. A category's value
// is only ever raised, never overwritten downward, so later weak matches
// cannot shrink a count already established.
func (e *Engine) extractCategoryUnits(rec *model.CommitmentRecord, lower string, excluded map[int]struct{}) {
	for _, cat := range e.rules.CategoryUnitPatterns {
		v := bestValue(cat.Patterns, lower, excluded)
		if v == nil {
			continue
		}
		dst := fieldFor(rec, cat.Category)
		if dst == nil {
			e.log.Warn("unknown unit category in rules", zap.String("category", string(cat.Category)))
			continue
		}
		assignIfLarger(dst, v)
	}
}

// bestValue walks a priority-ordered pattern table. The first pattern that
// yields at least one valid capture decides the category: explicit-tier
// patterns return the earliest valid capture (the stated obligation), weaker
// tiers return the maximum (most likely the total among incidental mentions).
func bestValue(patterns []UnitPattern, lower string, excluded map[int]struct{}) *int {
	for _, up := range patterns {
		var valid []int
		for _, m := range up.Pattern.FindAllStringSubmatch(lower, -1) {
			if len(m) < 2 {
				continue
			}
			v, err := strconv.Atoi(m[1])
			if err != nil || v <= 0 || v >= model.UnitBoundMax {
				continue
			}
			if _, bad := excluded[v]; bad {
				continue
			}
			valid = append(valid, v)
		}
		if len(valid) == 0 {
			continue
		}
		if up.Tier >= explicitTier {
			return &valid[0]
		}
		max := valid[0]
		for _, v := range valid[1:] {
			if v > max {
				max = v
			}
		}
		return &max
	}
	return nil
}

// assignIfLarger sets *dst to v when unset or smaller.
func assignIfLarger(dst **int, v *int) {
	if *dst == nil || *v > **dst {
		*dst = v
	}
}

// fieldFor maps a category name onto the record field it populates.
func fieldFor(rec *model.CommitmentRecord, cat UnitCategory) **int {
	switch cat {
	case CategoryTotal:
		return &rec.TotalUnits
	case CategoryLowIncome:
		return &rec.LowIncomeUnits
	case CategoryModerateIncome:
		return &rec.ModerateIncomeUnits
	case CategoryVeryLowIncome:
		return &rec.VeryLowIncomeUnits
	case CategorySenior:
		return &rec.SeniorUnits
	case CategoryFamily:
		return &rec.FamilyUnits
	case CategoryRental:
		return &rec.RentalUnits
	case CategoryForSale:
		return &rec.ForSaleUnits
	case CategoryRehabilitation:
		return &rec.RehabilitationUnits
	}
	// Unknown category in an injected rule table; the caller skips it rather
	// than letting it bleed into the total.
	return nil
}
