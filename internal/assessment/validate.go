package assessment

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// validateAssessment performs the structural checks the JSON schema cannot
// express. Returns a combined error describing all problems found.
func validateAssessment(a Assessment) error {
	var errs []string

	if !semver.IsValid(a.Version) {
		errs = append(errs, fmt.Sprintf("version %q is not valid semver", a.Version))
	}

	// Question ids are unique and options within a question have unique values.
	seen := make(map[int]bool, len(a.Questions))
	for i, q := range a.Questions {
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question id %d", q.ID))
		} else if q.ID != i+1 {
			errs = append(errs, fmt.Sprintf("question id %d at position %d, ids must be sequential from 1", q.ID, i+1))
		}
		seen[q.ID] = true

		values := make(map[int]bool, len(q.Options))
		for _, o := range q.Options {
			if o.Value < 0 {
				errs = append(errs, fmt.Sprintf("question %d: negative option value %d", q.ID, o.Value))
			}
			if values[o.Value] {
				errs = append(errs, fmt.Sprintf("question %d: duplicate option value %d", q.ID, o.Value))
			}
			values[o.Value] = true
		}
		if q.Alert != nil && q.Alert.MinValue > q.MaxValue() {
			errs = append(errs, fmt.Sprintf("question %d: alert threshold %d can never be reached", q.ID, q.Alert.MinValue))
		}
	}

	if computed := a.ComputedMaxScore(); computed != a.MaxScore {
		errs = append(errs, fmt.Sprintf("max_score is %d but question maxima sum to %d", a.MaxScore, computed))
	}

	errs = append(errs, validateBands(a)...)

	if len(errs) > 0 {
		return fmt.Errorf("assessment %q: %s", a.ID, strings.Join(errs, "; "))
	}
	return nil
}

// validateBands checks that the band table is ordered by the scoring
// direction, ends in a catch-all, and leaves no band empty over
// [MinScore, MaxScore]. Together that makes the bands exhaustive and
// non-overlapping.
func validateBands(a Assessment) []string {
	var errs []string
	bands := a.Scoring.Bands
	if len(bands) == 0 {
		return []string{"no score bands"}
	}

	if !a.Scoring.Direction.Valid() {
		return []string{fmt.Sprintf("unknown scoring direction %q", a.Scoring.Direction)}
	}

	levels := make(map[string]bool, len(bands))
	for _, b := range bands {
		if levels[b.Level] {
			errs = append(errs, fmt.Sprintf("duplicate band level %q", b.Level))
		}
		levels[b.Level] = true
	}

	last := bands[len(bands)-1]
	if !last.CatchAll() {
		errs = append(errs, fmt.Sprintf("last band %q must have no bound", last.Level))
	}

	lo, hi := a.MinScore(), a.MaxScore
	prev := 0
	for i, b := range bands[:len(bands)-1] {
		if b.Max != nil && b.Min != nil {
			errs = append(errs, fmt.Sprintf("band %q sets both max and min", b.Level))
			continue
		}
		switch a.Scoring.Direction {
		case HigherIsWorse:
			if b.Max == nil {
				errs = append(errs, fmt.Sprintf("band %q needs max for %s scoring", b.Level, HigherIsWorse))
				continue
			}
			bound := *b.Max
			if bound < lo || bound >= hi {
				errs = append(errs, fmt.Sprintf("band %q max %d outside [%d, %d)", b.Level, bound, lo, hi))
			}
			if i > 0 && bound <= prev {
				errs = append(errs, fmt.Sprintf("band %q max %d is not ascending", b.Level, bound))
			}
			prev = bound
		case HigherIsBetter:
			if b.Min == nil {
				errs = append(errs, fmt.Sprintf("band %q needs min for %s scoring", b.Level, HigherIsBetter))
				continue
			}
			bound := *b.Min
			if bound <= lo || bound > hi {
				errs = append(errs, fmt.Sprintf("band %q min %d outside (%d, %d]", b.Level, bound, lo, hi))
			}
			if i > 0 && bound >= prev {
				errs = append(errs, fmt.Sprintf("band %q min %d is not descending", b.Level, bound))
			}
			prev = bound
		}
	}
	return errs
}

// ErrInvalidCatalog wraps every load or validation failure of a catalog
// document.
var ErrInvalidCatalog = errors.New("invalid assessment catalog")
