package scoring

import (
	"golang.org/x/mod/semver"

	"github.com/mindcheck/mindcheck/internal/assessment"
)

// Trend describes how a result moved relative to an earlier one.
type Trend int

const (
	TrendNone Trend = iota // no earlier result to compare against
	TrendImproved
	TrendUnchanged
	TrendWorsened
)

func (t Trend) String() string {
	switch t {
	case TrendImproved:
		return "improved"
	case TrendUnchanged:
		return "unchanged"
	case TrendWorsened:
		return "worsened"
	default:
		return "none"
	}
}

// Arrow returns a one-rune marker for list views.
func (t Trend) Arrow() string {
	switch t {
	case TrendImproved:
		return "↑"
	case TrendUnchanged:
		return "→"
	case TrendWorsened:
		return "↓"
	default:
		return " "
	}
}

// Compare reports whether moving from prevTotal to currTotal is an
// improvement under the given direction.
func Compare(dir assessment.Direction, prevTotal, currTotal int) Trend {
	delta := currTotal - prevTotal
	if delta == 0 {
		return TrendUnchanged
	}
	better := delta < 0
	if dir == assessment.HigherIsBetter {
		better = delta > 0
	}
	if better {
		return TrendImproved
	}
	return TrendWorsened
}

// Comparable reports whether two results were scored under the same major
// version of an assessment. Different majors may use different items or
// bands, so their totals should not be compared directly.
func Comparable(versionA, versionB string) bool {
	if !semver.IsValid(versionA) || !semver.IsValid(versionB) {
		return false
	}
	return semver.Major(versionA) == semver.Major(versionB)
}
