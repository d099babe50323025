package extract

import (
	"strconv"
	"strings"

	"github.com/abwagner/nj-affordable-housing/internal/model"
)

// enhanceFromTables corrects unit counts using row-structured table data.
// Rows mentioning units, obligation, or total contribute their purely
// numeric cells: low-income and moderate-income fill only when unset, the
// total is raised but never lowered. Runs strictly after the regex passes.
func (e *Engine) enhanceFromTables(rec *model.CommitmentRecord, tables [][]string) {
	for _, row := range tables {
		if len(row) == 0 {
			continue
		}

		rowText := strings.ToLower(strings.Join(row, " "))
		if !strings.Contains(rowText, "units") &&
			!strings.Contains(rowText, "obligation") &&
			!strings.Contains(rowText, "total") {
			continue
		}

		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" || !isDigits(cell) {
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil || v <= 0 || v >= model.UnitBoundMax {
				continue
			}

			switch {
			case strings.Contains(rowText, "low") && !strings.Contains(rowText, "very"):
				if rec.LowIncomeUnits == nil {
					n := v
					rec.LowIncomeUnits = &n
				}
			case strings.Contains(rowText, "moderate"):
				if rec.ModerateIncomeUnits == nil {
					n := v
					rec.ModerateIncomeUnits = &n
				}
			case strings.Contains(rowText, "total"):
				if rec.TotalUnits == nil || v > *rec.TotalUnits {
					n := v
					rec.TotalUnits = &n
				}
			}
		}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
