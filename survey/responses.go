package survey

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/aarnt28/survey-response-Host/model"
)

// SubmitResponse validates a full answer set against the form's current
// question set and persists the response group pinned to the form's current
// version. Validation failures leave nothing persisted; the caller's
// transaction makes the write all-or-nothing.
func SubmitResponse(ctx context.Context, tx *sql.Tx, slug string, spec model.ResponseSpec) (model.ResponseGroup, error) {
	form, err := getForm(ctx, tx, slug)
	if err != nil {
		return model.ResponseGroup{}, err
	}
	if form.IsArchived {
		return model.ResponseGroup{}, fmt.Errorf("form %q: %w", slug, ErrFormArchived)
	}

	byID := make(map[int]model.Question, len(form.Questions))
	for _, q := range form.Questions {
		byID[q.ID] = q
	}

	answeredIDs := make(map[int]bool, len(spec.Answers))
	for _, a := range spec.Answers {
		question, ok := byID[a.QuestionID]
		if !ok {
			return model.ResponseGroup{}, fmt.Errorf(
				"question id %d is not part of form %q: %w", a.QuestionID, slug, ErrUnknownQuestion)
		}
		if err := ValidateAnswer(question, a.Value); err != nil {
			return model.ResponseGroup{}, err
		}
		if answered(question.Type, a.Value) {
			answeredIDs[question.ID] = true
		}
	}

	var missing []string
	for _, q := range form.Questions {
		if q.Required && !answeredIDs[q.ID] {
			missing = append(missing, q.Prompt)
		}
	}
	if len(missing) > 0 {
		return model.ResponseGroup{}, fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	group := model.ResponseGroup{
		FormID:               form.ID,
		RespondentIdentifier: spec.RespondentIdentifier,
		Notes:                spec.Notes,
		SubmittedAt:          time.Now().UTC(),
		FormVersion:          form.Version,
		Answers:              []model.Answer{},
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO response_group (form_id, respondent_identifier, notes, submitted_at, form_version)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		form.ID, spec.RespondentIdentifier, spec.Notes, group.SubmittedAt, form.Version,
	).Scan(&group.ID)
	if err != nil {
		return model.ResponseGroup{}, errors.Wrap(err, "insert response group")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO answer (response_group_id, question_id, value)
		VALUES (?, ?, ?)
		RETURNING id`)
	if err != nil {
		return model.ResponseGroup{}, errors.Wrap(err, "prepare answer insert")
	}
	defer stmt.Close()

	for _, a := range spec.Answers {
		answer := model.Answer{QuestionID: a.QuestionID, Value: a.Value}
		err = stmt.QueryRowContext(ctx, group.ID, a.QuestionID, a.Value).Scan(&answer.ID)
		if err != nil {
			return model.ResponseGroup{}, errors.Wrap(err, "insert answer")
		}
		group.Answers = append(group.Answers, answer)
	}
	return group, nil
}

// GetResponse looks one response group up within a form, regardless of
// archive state of either.
func GetResponse(ctx context.Context, q Querier, slug string, id int) (model.ResponseGroup, error) {
	formID, err := formID(ctx, q, slug)
	if err != nil {
		return model.ResponseGroup{}, err
	}

	row := q.QueryRowContext(ctx, `
		SELECT id, form_id, respondent_identifier, notes, submitted_at, form_version, is_archived, archived_at
		FROM response_group
		WHERE id = ? AND form_id = ?`,
		id, formID,
	)
	group, err := scanResponseGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResponseGroup{}, fmt.Errorf("response group %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.ResponseGroup{}, err
	}

	group.Answers, err = groupAnswers(ctx, q, group.ID)
	return group, err
}

// ListResponses returns a form's response groups newest first. Archived
// groups are excluded unless includeArchived is set.
func ListResponses(ctx context.Context, q Querier, slug string, includeArchived bool) ([]model.ResponseGroup, error) {
	formID, err := formID(ctx, q, slug)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, form_id, respondent_identifier, notes, submitted_at, form_version, is_archived, archived_at
		FROM response_group
		WHERE form_id = ?`
	if !includeArchived {
		query += ` AND is_archived = 0`
	}
	query += `
		ORDER BY submitted_at DESC, id DESC`

	rows, err := q.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, errors.Wrap(err, "select response groups")
	}
	defer rows.Close()

	groups := []model.ResponseGroup{}
	for rows.Next() {
		group, err := scanResponseGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "select response groups")
	}

	for i := range groups {
		groups[i].Answers, err = groupAnswers(ctx, q, groups[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// SetResponseArchived toggles a response group's archive flag. Same rules as
// forms: idempotent, reversible, no cascade.
func SetResponseArchived(ctx context.Context, tx *sql.Tx, slug string, id int, archived bool) (model.ResponseGroup, error) {
	group, err := GetResponse(ctx, tx, slug, id)
	if err != nil {
		return model.ResponseGroup{}, err
	}

	now := time.Now().UTC()
	var archivedAt *time.Time
	if archived {
		archivedAt = &now
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE response_group
		SET is_archived = ?, archived_at = ?
		WHERE id = ?`,
		archived, archivedAt, group.ID,
	)
	if err != nil {
		return model.ResponseGroup{}, errors.Wrap(err, "archive response group")
	}

	group.IsArchived = archived
	group.ArchivedAt = archivedAt
	return group, nil
}

func groupAnswers(ctx context.Context, q Querier, groupID int) ([]model.Answer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, question_id, value
		FROM answer
		WHERE response_group_id = ?
		ORDER BY id`,
		groupID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "select answers")
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Value); err != nil {
			return nil, errors.Wrap(err, "scan answer")
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func scanResponseGroup(row rowScanner) (model.ResponseGroup, error) {
	var (
		group      model.ResponseGroup
		respondent sql.NullString
		notes      sql.NullString
		archivedAt sql.NullTime
	)
	err := row.Scan(
		&group.ID, &group.FormID, &respondent, &notes,
		&group.SubmittedAt, &group.FormVersion, &group.IsArchived, &archivedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ResponseGroup{}, err
		}
		return model.ResponseGroup{}, errors.Wrap(err, "scan response group")
	}
	group.RespondentIdentifier = respondent.String
	group.Notes = notes.String
	if archivedAt.Valid {
		t := archivedAt.Time
		group.ArchivedAt = &t
	}
	group.Answers = []model.Answer{}
	return group, nil
}
