package survey

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/aarnt28/survey-response-Host/model"
)

// Querier is the read-side database handle. Both *sql.DB and *sql.Tx satisfy
// it; mutating operations take an explicit *sql.Tx so that every write is
// scoped to one transaction owned by the caller.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateForm persists a new form at version 1 together with its question set
// and the version 1 snapshot. It fails with ErrDuplicateSlug when the slug is
// taken; nothing is written in that case.
func CreateForm(ctx context.Context, tx *sql.Tx, spec model.FormSpec) (model.Form, error) {
	if err := checkQuestionSpecs(spec.Questions); err != nil {
		return model.Form{}, err
	}

	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM form WHERE slug = ?)`, spec.Slug).
		Scan(&exists)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "check slug")
	}
	if exists {
		return model.Form{}, fmt.Errorf("form with slug %q: %w", spec.Slug, ErrDuplicateSlug)
	}

	now := time.Now().UTC()
	form := model.Form{
		Slug:        spec.Slug,
		Title:       spec.Title,
		Description: spec.Description,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO form (slug, title, description, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		RETURNING id`,
		spec.Slug, spec.Title, spec.Description, now, now,
	).Scan(&form.ID)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "insert form")
	}

	form.Questions, err = insertQuestionSet(ctx, tx, form.ID, spec.Questions)
	if err != nil {
		return model.Form{}, err
	}

	if err := insertSnapshot(ctx, tx, form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

// UpdateForm replaces a form's title, description and question set, bumps the
// version by one and snapshots the new state. The old question rows are
// detached, not deleted, so answers recorded against them stay readable.
// A racing update of the same form loses the optimistic version check and
// fails with ErrVersionConflict.
func UpdateForm(ctx context.Context, tx *sql.Tx, slug string, spec model.FormUpdate) (model.Form, error) {
	if err := checkQuestionSpecs(spec.Questions); err != nil {
		return model.Form{}, err
	}

	form, err := getForm(ctx, tx, slug)
	if err != nil {
		return model.Form{}, err
	}
	if form.IsArchived {
		return model.Form{}, fmt.Errorf("form %q: %w", slug, ErrFormArchived)
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE form
		SET title = ?, description = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		spec.Title, spec.Description, now, form.ID, form.Version,
	)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "update form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Form{}, errors.Wrap(err, "update form: rows affected")
	}
	if n < 1 {
		return model.Form{}, fmt.Errorf("form %q: %w", slug, ErrVersionConflict)
	}

	_, err = tx.ExecContext(ctx, `UPDATE question SET form_id = NULL WHERE form_id = ?`, form.ID)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "detach questions")
	}

	form.Title = spec.Title
	form.Description = spec.Description
	form.Version++
	form.UpdatedAt = now

	form.Questions, err = insertQuestionSet(ctx, tx, form.ID, spec.Questions)
	if err != nil {
		return model.Form{}, err
	}

	if err := insertSnapshot(ctx, tx, form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

// SetFormArchived toggles the archive flag. It is idempotent, never cascades
// to the form's response groups, and leaves version and questions untouched.
func SetFormArchived(ctx context.Context, tx *sql.Tx, slug string, archived bool) (model.Form, error) {
	form, err := getForm(ctx, tx, slug)
	if err != nil {
		return model.Form{}, err
	}

	now := time.Now().UTC()
	var archivedAt *time.Time
	if archived {
		archivedAt = &now
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE form
		SET is_archived = ?, archived_at = ?, updated_at = ?
		WHERE id = ?`,
		archived, archivedAt, now, form.ID,
	)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "archive form")
	}

	form.IsArchived = archived
	form.ArchivedAt = archivedAt
	form.UpdatedAt = now
	return form, nil
}

// GetForm looks a form up by slug regardless of archive state, with its
// current question set.
func GetForm(ctx context.Context, q Querier, slug string) (model.Form, error) {
	return getForm(ctx, q, slug)
}

// ListForms returns forms newest first. Archived forms are excluded unless
// includeArchived is set.
func ListForms(ctx context.Context, q Querier, includeArchived bool) ([]model.Form, error) {
	query := `
		SELECT id, slug, title, description, version, created_at, updated_at, is_archived, archived_at
		FROM form`
	if !includeArchived {
		query += `
		WHERE is_archived = 0`
	}
	query += `
		ORDER BY created_at DESC, id DESC`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "select forms")
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "select forms")
	}

	for i := range forms {
		forms[i].Questions, err = currentQuestions(ctx, q, forms[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return forms, nil
}

// ListFormVersions returns a form's snapshot history, newest version first.
func ListFormVersions(ctx context.Context, q Querier, slug string) ([]model.FormVersion, error) {
	id, err := formID(ctx, q, slug)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, version, title, description, questions_snapshot, created_at
		FROM form_version
		WHERE form_id = ?
		ORDER BY version DESC`,
		id,
	)
	if err != nil {
		return nil, errors.Wrap(err, "select form versions")
	}
	defer rows.Close()

	versions := []model.FormVersion{}
	for rows.Next() {
		var (
			v        model.FormVersion
			snapshot string
		)
		err = rows.Scan(&v.ID, &v.Version, &v.Title, &v.Description, &snapshot, &v.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scan form version")
		}
		if err := json.Unmarshal([]byte(snapshot), &v.Snapshot); err != nil {
			return nil, errors.Wrap(err, "decode questions snapshot")
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// insertSnapshot freezes the form's current question set as an immutable
// version record. form.Questions is already in ascending position order.
func insertSnapshot(ctx context.Context, tx *sql.Tx, form model.Form) error {
	snapshot := model.QuestionsSnapshot{
		Questions: make([]model.SnapshotQuestion, len(form.Questions)),
	}
	for i, q := range form.Questions {
		snapshot.Questions[i] = model.SnapshotQuestion{
			Prompt:   q.Prompt,
			Type:     q.Type,
			Position: q.Position,
			Required: q.Required,
			Metadata: q.Metadata,
		}
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "encode questions snapshot")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO form_version (form_id, version, title, description, questions_snapshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		form.ID, form.Version, form.Title, form.Description, string(encoded), time.Now().UTC(),
	)
	return errors.Wrap(err, "insert form version")
}

func getForm(ctx context.Context, q Querier, slug string) (model.Form, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, slug, title, description, version, created_at, updated_at, is_archived, archived_at
		FROM form
		WHERE slug = ?`,
		slug,
	)

	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Form{}, fmt.Errorf("form %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return model.Form{}, err
	}

	form.Questions, err = currentQuestions(ctx, q, form.ID)
	return form, err
}

// formID resolves a slug to its row id, regardless of archive state.
func formID(ctx context.Context, q Querier, slug string) (int, error) {
	var id int
	err := q.QueryRowContext(ctx, `SELECT id FROM form WHERE slug = ?`, slug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("form %q: %w", slug, ErrNotFound)
	}
	return id, errors.Wrap(err, "select form id")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (model.Form, error) {
	var (
		form       model.Form
		archivedAt sql.NullTime
	)
	err := row.Scan(
		&form.ID, &form.Slug, &form.Title, &form.Description, &form.Version,
		&form.CreatedAt, &form.UpdatedAt, &form.IsArchived, &archivedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Form{}, err
		}
		return model.Form{}, errors.Wrap(err, "scan form")
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		form.ArchivedAt = &t
	}
	form.Questions = []model.Question{}
	return form, nil
}
