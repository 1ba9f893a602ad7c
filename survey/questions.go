package survey

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/aarnt28/survey-response-Host/model"
)

// checkQuestionSpecs rejects a question list with duplicate positions or
// metadata that does not fit the question type, before any row is written.
// The unique constraint on (form_id, position) still backs this at the
// storage layer.
func checkQuestionSpecs(specs []model.QuestionSpec) error {
	seen := make(map[int]string, len(specs))
	for _, s := range specs {
		if prev, ok := seen[s.Position]; ok {
			return fmt.Errorf("%w: position %d used by both %q and %q",
				ErrDuplicatePosition, s.Position, prev, s.Prompt)
		}
		seen[s.Position] = s.Prompt

		if _, err := ConstraintsFor(s.Type, s.Metadata); err != nil {
			return fmt.Errorf("question %q: %w", s.Prompt, err)
		}
	}
	return nil
}

// insertQuestionSet persists one question row per spec in ascending position
// order and returns the materialized set.
func insertQuestionSet(ctx context.Context, tx *sql.Tx, formID int, specs []model.QuestionSpec) ([]model.Question, error) {
	ordered := make([]model.QuestionSpec, len(specs))
	copy(ordered, specs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO question (form_id, prompt, type, position, required, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare question insert")
	}
	defer stmt.Close()

	questions := make([]model.Question, 0, len(ordered))
	for _, s := range ordered {
		metadata, err := metadataValue(s.Metadata)
		if err != nil {
			return nil, err
		}

		q := model.Question{
			Prompt:   s.Prompt,
			Type:     s.Type,
			Position: s.Position,
			Required: s.Required,
			Metadata: s.Metadata,
		}
		err = stmt.QueryRowContext(ctx, formID, s.Prompt, string(s.Type), s.Position, s.Required, metadata).
			Scan(&q.ID)
		if err != nil {
			return nil, errors.Wrap(err, "insert question")
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func metadataValue(m *model.Metadata) (any, error) {
	if m == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode question metadata")
	}
	return string(encoded), nil
}

// currentQuestions loads a form's attached question set ordered by position.
// Detached rows (form_id NULL, replaced by a later update) are excluded.
func currentQuestions(ctx context.Context, q Querier, formID int) ([]model.Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, prompt, type, position, required, metadata
		FROM question
		WHERE form_id = ?
		ORDER BY position`,
		formID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "select questions")
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var (
			question model.Question
			metadata sql.NullString
		)
		err = rows.Scan(
			&question.ID, &question.Prompt, (*string)(&question.Type),
			&question.Position, &question.Required, &metadata,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan question")
		}

		if metadata.Valid && metadata.String != "" {
			question.Metadata = &model.Metadata{}
			if err := json.Unmarshal([]byte(metadata.String), question.Metadata); err != nil {
				return nil, errors.Wrap(err, "decode question metadata")
			}
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}
