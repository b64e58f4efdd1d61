package assessment

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError is returned when user input or an answer set breaks an
// assessment rule. The message is meant to be shown to the user as-is.
type ValidationError struct {
	Field   string // e.g. "answers", "question 3"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError is returned by strict catalog lookups for an unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("assessment %q not found", e.ID)
}

// IncompleteError builds the ValidationError for an answer set that misses
// the given question ids.
func IncompleteError(missing []int) *ValidationError {
	nums := make([]string, len(missing))
	for i, id := range missing {
		nums[i] = strconv.Itoa(id)
	}
	return &ValidationError{
		Field:   "answers",
		Message: fmt.Sprintf("incomplete assessment: unanswered question(s) %s", strings.Join(nums, ", ")),
	}
}
