package survey

import (
	"fmt"

	"github.com/aarnt28/survey-response-Host/model"
)

// Constraints is the typed view of a question's metadata bag. Exactly one
// variant applies to a given question type.
type Constraints interface {
	constraints()
}

// NumericRange bounds integer and decimal answers. A nil bound is open.
type NumericRange struct {
	Min *float64
	Max *float64
}

// ChoiceSet enumerates the valid values for choice answers.
type ChoiceSet struct {
	Options []model.ChoiceOption
}

// TextHints carries presentation hints for free-text questions. They are
// advisory only and never enforced during answer validation.
type TextHints struct {
	Pattern     string
	Placeholder string
}

func (NumericRange) constraints() {}
func (ChoiceSet) constraints()    {}
func (TextHints) constraints()    {}

func (cs ChoiceSet) contains(value string) bool {
	for _, opt := range cs.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// ConstraintsFor decodes the flat metadata bag into the variant matching the
// question type, rejecting fields that do not belong to that type.
func ConstraintsFor(t model.QuestionType, meta *model.Metadata) (Constraints, error) {
	switch t {
	case model.Integer, model.Decimal:
		if meta == nil {
			return NumericRange{}, nil
		}
		if len(meta.Options) > 0 {
			return nil, fmt.Errorf("%w: numeric questions cannot define choice options", ErrInvalidMetadata)
		}
		if meta.MinValue != nil && meta.MaxValue != nil && *meta.MinValue > *meta.MaxValue {
			return nil, fmt.Errorf("%w: min_value cannot be greater than max_value", ErrInvalidMetadata)
		}
		return NumericRange{Min: meta.MinValue, Max: meta.MaxValue}, nil

	case model.SingleChoice, model.MultipleChoice:
		if meta == nil || len(meta.Options) == 0 {
			return nil, fmt.Errorf("%w: choice questions must define at least one option", ErrInvalidMetadata)
		}
		return ChoiceSet{Options: meta.Options}, nil

	case model.ShortText, model.LongText:
		if meta == nil {
			return TextHints{}, nil
		}
		if len(meta.Options) > 0 {
			return nil, fmt.Errorf("%w: text questions cannot define choice options", ErrInvalidMetadata)
		}
		if meta.MinValue != nil || meta.MaxValue != nil {
			return nil, fmt.Errorf("%w: text questions cannot define numeric ranges", ErrInvalidMetadata)
		}
		return TextHints{Pattern: meta.Pattern, Placeholder: meta.Placeholder}, nil

	default:
		return nil, fmt.Errorf("%w: unknown question type %q", ErrInvalidMetadata, t)
	}
}
