package extract

import "strings"

const (
	projectNameMinLen   = 8
	projectNameMaxWords = 5
)

// extractProjectName returns the first candidate in document order that
// survives the exclusion, length, and word-count checks. Web-page path only
// keeps one name.
func (e *Engine) extractProjectName(text string) string {
	for _, m := range e.rules.ProjectPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if e.acceptProjectName(name) {
			return name
		}
	}
	return ""
}

// collectProjectNames gathers every passing candidate from the primary
// pattern plus the quoted "known as"/"called" pattern, de-duplicated in
// first-seen order. Document path.
func (e *Engine) collectProjectNames(text string) []string {
	var names []string
	seen := make(map[string]struct{})

	add := func(name string) {
		name = strings.TrimSpace(name)
		if !e.acceptProjectName(name) {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, m := range e.rules.ProjectPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range e.rules.KnownAsPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	return names
}

// acceptProjectName applies the three candidate checks: no organizational
// exclusion word as a substring, at least 8 characters, at most 5 words.
func (e *Engine) acceptProjectName(name string) bool {
	if len(name) < projectNameMinLen {
		return false
	}
	if len(strings.Fields(name)) > projectNameMaxWords {
		return false
	}
	for _, word := range e.rules.ProjectExclusions {
		if strings.Contains(name, word) {
			return false
		}
	}
	return true
}

// collectAddresses gathers street addresses and block/lot references,
// distinct, in first-seen order. Document path.
func (e *Engine) collectAddresses(text string) []string {
	var addrs []string
	seen := make(map[string]struct{})

	for _, re := range e.rules.AddressPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			addr := strings.TrimSpace(m[1])
			if addr == "" {
				continue
			}
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			addrs = append(addrs, addr)
		}
	}
	return addrs
}
