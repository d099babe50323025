package extract

import "strconv"

// extractDeadline collects every year captured by the deadline patterns,
// keeps those inside [engineYear-1, engineYear+15], and returns the latest
// as a 4-digit string. The latest stated deadline wins when a document
// mentions several rounds.
func (e *Engine) extractDeadline(lower string) string {
	minYear := e.year - 1
	maxYear := e.year + 15

	best := 0
	for _, re := range e.rules.DeadlinePatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if len(m) < 2 {
				continue
			}
			y, err := strconv.Atoi(m[1])
			if err != nil || y < minYear || y > maxYear {
				continue
			}
			if y > best {
				best = y
			}
		}
	}
	if best == 0 {
		return ""
	}
	return strconv.Itoa(best)
}
