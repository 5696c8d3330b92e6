package matching

import "strings"

// MatchInstructor finds the historical spelling of a live instructor name.
//
// An exact match on the normalized form wins outright and returns the candidate as
// written. Otherwise the first candidate in input order with the same last name whose
// leading initials start with the live name's initials is returned. The boolean is
// false when the live name has fewer than two tokens or nothing qualifies.
func MatchInstructor(live string, candidates []string) (string, bool) {
	current := NormalizeName(live)
	tokens := strings.Fields(current)
	if len(tokens) < 2 {
		return "", false
	}
	last := tokens[len(tokens)-1]
	initials := Initials(current)

	for _, candidate := range candidates {
		if NormalizeName(candidate) == current {
			return candidate, true
		}
	}

	for _, candidate := range candidates {
		hist := NormalizeName(candidate)
		histTokens := strings.Fields(hist)
		if len(histTokens) < 2 {
			continue
		}
		if histTokens[len(histTokens)-1] != last {
			continue
		}
		if initialsPrefix(initials, Initials(hist)) {
			return candidate, true
		}
	}

	return "", false
}

// ResolveInstructor is MatchInstructor with the live name as the fallback.
func ResolveInstructor(live string, candidates []string) string {
	if resolved, ok := MatchInstructor(live, candidates); ok {
		return resolved
	}
	return live
}

func initialsPrefix(live, hist []string) bool {
	if len(live) == 0 || len(hist) < len(live) {
		return false
	}
	for i := range live {
		if live[i] != hist[i] {
			return false
		}
	}
	return true
}
