// Package prereq parses free-text enrollment requirements into structured
// prerequisite expressions.
package prereq

import (
	"regexp"
	"strings"

	"github.com/noah-isme/slugtistics-api/internal/matching"
	"github.com/noah-isme/slugtistics-api/internal/models"
)

const (
	prerequisiteMarker = "Prerequisite(s):"
	enrollmentMarker   = "Enrollment"
)

// Parser turns enrollment requirement text into a prerequisite expression.
type Parser interface {
	Parse(text string) models.PrerequisiteExpression
}

var (
	concurrentClause = regexp.MustCompile(`(?is)concurrent\s+enrollment\s+in\s+(.*)`)
	courseCode       = regexp.MustCompile(`\b[A-Z]{2,4}\s*\d+[A-Z]*`)
	commaList        = regexp.MustCompile(`\b([A-Z]{2,4})\s*(\d+[A-Z]*)((?:\s*,\s*\d+[A-Z]*\b)+)(?:\s*,?\s*(and|or)\s+(\d+[A-Z]*)\b)?`)
	andBoundary      = regexp.MustCompile(`;|\band\b`)
	orBoundary       = regexp.MustCompile(`\s+or\s+`)
)

// RuleParser is the regular-expression based Parser.
type RuleParser struct{}

// NewRuleParser constructs a RuleParser.
func NewRuleParser() *RuleParser {
	return &RuleParser{}
}

// Parse implements Parser. Text without a "Prerequisite(s):" marker has no
// prerequisites, and fragments that name no course are dropped.
func (p *RuleParser) Parse(text string) models.PrerequisiteExpression {
	expr := models.PrerequisiteExpression{Groups: [][]string{}, Concurrent: [][]string{}}

	idx := strings.Index(text, prerequisiteMarker)
	if idx < 0 {
		return expr
	}
	body := truncateAtEnrollment(text[idx+len(prerequisiteMarker):])

	if m := concurrentClause.FindStringSubmatchIndex(body); m != nil {
		clause := body[m[2]:m[3]]
		body = body[:m[0]]
		for _, group := range parseGroups(clause) {
			marked := make([]string, len(group))
			for i, code := range group {
				marked[i] = models.ConcurrentPrefix + code
			}
			expr.Concurrent = append(expr.Concurrent, marked)
		}
	}

	expr.Groups = append(expr.Groups, parseGroups(body)...)
	return expr
}

// Parse runs the default RuleParser.
func Parse(text string) models.PrerequisiteExpression {
	return NewRuleParser().Parse(text)
}

// truncateAtEnrollment cuts enrollment restrictions, keeping "concurrent enrollment" clauses.
func truncateAtEnrollment(text string) string {
	offset := 0
	for {
		idx := strings.Index(text[offset:], enrollmentMarker)
		if idx < 0 {
			return text
		}
		pos := offset + idx
		before := strings.ToLower(strings.TrimRight(text[:pos], " \t\r\n"))
		if !strings.HasSuffix(before, "concurrent") {
			return text[:pos]
		}
		offset = pos + len(enrollmentMarker)
	}
}

// expandCommaLists rewrites "CSE 13, 14, and 15" as "CSE 13 and CSE 14 and CSE 15".
func expandCommaLists(text string) string {
	return commaList.ReplaceAllStringFunc(text, func(match string) string {
		m := commaList.FindStringSubmatch(match)
		subject := m[1]
		joiner := " and "
		codes := []string{subject + " " + m[2]}
		for _, number := range strings.Split(m[3], ",") {
			if number = strings.TrimSpace(number); number != "" {
				codes = append(codes, subject+" "+number)
			}
		}
		if m[5] != "" {
			if m[4] == "or" {
				joiner = " or "
			}
			codes = append(codes, subject+" "+m[5])
		}
		return strings.Join(codes, joiner)
	})
}

type parsedGroup struct {
	codes  []string
	single bool
	merged bool
}

func parseGroups(text string) [][]string {
	parts := andBoundary.Split(expandCommaLists(text), -1)

	groups := make([]parsedGroup, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if orBoundary.MatchString(part) {
			var alternatives []string
			for _, alt := range orBoundary.Split(part, -1) {
				if code := courseCode.FindString(alt); code != "" {
					alternatives = appendUnique(alternatives, matching.NormalizeCourseCode(code))
				}
			}
			if len(alternatives) > 0 {
				groups = append(groups, parsedGroup{codes: alternatives, single: len(alternatives) == 1})
			}
			continue
		}
		for _, code := range courseCode.FindAllString(part, -1) {
			groups = mergeOrAppend(groups, matching.NormalizeCourseCode(code))
		}
	}

	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.codes)
	}
	return out
}

// mergeOrAppend folds a lab course into the preceding singleton lecture (or the reverse).
func mergeOrAppend(groups []parsedGroup, code string) []parsedGroup {
	if n := len(groups); n > 0 {
		prev := &groups[n-1]
		if prev.single && !prev.merged {
			if lecture, lab, ok := labPair(prev.codes[0], code); ok {
				prev.codes = []string{lecture, lab}
				prev.merged = true
				return groups
			}
		}
	}
	return append(groups, parsedGroup{codes: []string{code}, single: true})
}

// labPair reports whether two codes are a lecture and its "L" lab, returning them in that order.
func labPair(a, b string) (string, string, bool) {
	subjectA, catalogA := matching.SplitCourseCode(a)
	subjectB, catalogB := matching.SplitCourseCode(b)
	if subjectA != subjectB {
		return "", "", false
	}
	numA := matching.CatalogNumber(catalogA)
	if numA == "" || numA != matching.CatalogNumber(catalogB) {
		return "", "", false
	}
	labA := strings.HasSuffix(catalogA, "L")
	labB := strings.HasSuffix(catalogB, "L")
	switch {
	case labB && !labA:
		return a, b, true
	case labA && !labB:
		return b, a, true
	default:
		return "", "", false
	}
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
