package survey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aarnt28/survey-response-Host/model"
)

// ValidateAnswer checks one raw answer value against its question's typed
// constraints. It is a pure function; required-field completeness is the
// response assembler's concern.
//
// Integer and decimal questions are validated identically: both accept any
// numeric string, fractional included, and the range check runs on the
// parsed value.
func ValidateAnswer(q model.Question, raw string) error {
	cs, err := ConstraintsFor(q.Type, q.Metadata)
	if err != nil {
		return fmt.Errorf("question %q: %w", q.Prompt, err)
	}

	switch c := cs.(type) {
	case NumericRange:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("question %q: %w", q.Prompt, ErrNotNumeric)
		}
		if c.Min != nil && n < *c.Min {
			return fmt.Errorf("question %q: %w of %v", q.Prompt, ErrBelowMinimum, *c.Min)
		}
		if c.Max != nil && n > *c.Max {
			return fmt.Errorf("question %q: %w of %v", q.Prompt, ErrAboveMaximum, *c.Max)
		}

	case ChoiceSet:
		for _, value := range selectedValues(q.Type, raw) {
			if !c.contains(value) {
				return fmt.Errorf("question %q: %w", q.Prompt, ErrInvalidChoice)
			}
		}

	case TextHints:
		// free text carries no hard constraints
	}
	return nil
}

// selectedValues splits a choice answer into the values it selects. A
// multiple_choice value is comma-separated; segments are trimmed and blank
// ones dropped.
func selectedValues(t model.QuestionType, raw string) []string {
	if t != model.MultipleChoice {
		return []string{raw}
	}
	var values []string
	for _, segment := range strings.Split(raw, ",") {
		if segment = strings.TrimSpace(segment); segment != "" {
			values = append(values, segment)
		}
	}
	return values
}

// answered reports whether raw constitutes an actual answer to a question of
// type t. A blank value never does, and a multiple_choice value whose
// segments all trim away selects nothing, so a required question cannot be
// satisfied by an empty selection.
func answered(t model.QuestionType, raw string) bool {
	if t == model.MultipleChoice {
		return len(selectedValues(t, raw)) > 0
	}
	return strings.TrimSpace(raw) != ""
}
