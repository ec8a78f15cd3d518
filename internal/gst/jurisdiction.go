package gst

import (
	"regexp"
	"strings"
)

// Place-of-supply strings are free text; the code usually shows up either as
// "GJ (24) Gujarat" or as a bare leading token "GJ".
var (
	codeBeforeParenRe = regexp.MustCompile(`([a-zA-Z]{2})\s*\(`)
	leadingCodeRe     = regexp.MustCompile(`^([a-zA-Z]{2})(\s|$)`)
)

// IsInterState decides whether a transaction crosses state lines given the
// document's free-text place of supply and the seller's registered home
// state. aliases extends the built-in code table (operator config); it may
// be nil.
//
// Matching order is load-bearing for compatibility with persisted totals:
// direct substring containment first, code-table lookup second. Anything
// unmatched is inter-state — absence of data must never under-tax.
func IsInterState(placeOfSupply, homeState string, aliases map[string]string) bool {
	pos := strings.ToLower(strings.TrimSpace(placeOfSupply))
	home := strings.ToLower(strings.TrimSpace(homeState))
	if pos == "" || home == "" {
		return true
	}

	if strings.Contains(pos, home) || strings.Contains(home, pos) {
		return false
	}

	code := extractStateCode(pos)
	if code == "" {
		return true
	}

	name, ok := aliases[code]
	if !ok {
		name, ok = stateByCode[code]
	}
	if !ok {
		return true
	}

	return !strings.Contains(home, name)
}

// IsInterStateByCode compares validated state codes directly. This is the
// preferred path when both the document and the organization carry an
// explicit code; the free-text heuristic above is the legacy fallback.
func IsInterStateByCode(placeOfSupplyCode, homeStateCode string) (interState bool, ok bool) {
	pos := strings.ToLower(strings.TrimSpace(placeOfSupplyCode))
	home := strings.ToLower(strings.TrimSpace(homeStateCode))
	if pos == "" || home == "" {
		return false, false
	}
	if !IsValidStateCode(pos) || !IsValidStateCode(home) {
		return false, false
	}
	return pos != home, true
}

func extractStateCode(pos string) string {
	if m := codeBeforeParenRe.FindStringSubmatch(pos); m != nil {
		return strings.ToLower(m[1])
	}
	if m := leadingCodeRe.FindStringSubmatch(pos); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}
