package survey_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aarnt28/survey-response-Host/config"
	"github.com/aarnt28/survey-response-Host/database"
	"github.com/aarnt28/survey-response-Host/model"
	"github.com/aarnt28/survey-response-Host/survey"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(config.Config{
		DBPath: filepath.Join(t.TempDir(), "survey.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// inTx runs op inside one transaction, committing on success and rolling
// back on failure, and hands op's error back to the test.
func inTx(t *testing.T, db *sql.DB, op func(tx *sql.Tx) error) error {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	if err := op(tx); err != nil {
		require.NoError(t, tx.Rollback())
		return err
	}
	require.NoError(t, tx.Commit())
	return nil
}

func createForm(t *testing.T, db *sql.DB, spec model.FormSpec) model.Form {
	t.Helper()
	var form model.Form
	err := inTx(t, db, func(tx *sql.Tx) (err error) {
		form, err = survey.CreateForm(context.Background(), tx, spec)
		return
	})
	require.NoError(t, err)
	return form
}

func updateForm(t *testing.T, db *sql.DB, slug string, spec model.FormUpdate) (model.Form, error) {
	t.Helper()
	var form model.Form
	err := inTx(t, db, func(tx *sql.Tx) (err error) {
		form, err = survey.UpdateForm(context.Background(), tx, slug, spec)
		return
	})
	return form, err
}

func setFormArchived(t *testing.T, db *sql.DB, slug string, archived bool) model.Form {
	t.Helper()
	var form model.Form
	err := inTx(t, db, func(tx *sql.Tx) (err error) {
		form, err = survey.SetFormArchived(context.Background(), tx, slug, archived)
		return
	})
	require.NoError(t, err)
	return form
}

func submitResponse(t *testing.T, db *sql.DB, slug string, spec model.ResponseSpec) (model.ResponseGroup, error) {
	t.Helper()
	var group model.ResponseGroup
	err := inTx(t, db, func(tx *sql.Tx) (err error) {
		group, err = survey.SubmitResponse(context.Background(), tx, slug, spec)
		return
	})
	return group, err
}

func f64(v float64) *float64 {
	return &v
}

// officeCheckSpec is the shared form fixture: a required bounded integer, a
// required single choice and an optional free-text question.
func officeCheckSpec() model.FormSpec {
	return model.FormSpec{
		Slug:        "office-check",
		Title:       "Office check",
		Description: "Quarterly office infrastructure check",
		Questions: []model.QuestionSpec{
			{
				Prompt:   "How many workstations are in use?",
				Type:     model.Integer,
				Position: 0,
				Required: true,
				Metadata: &model.Metadata{MinValue: f64(0), MaxValue: f64(500)},
			},
			{
				Prompt:   "Where are backups stored?",
				Type:     model.SingleChoice,
				Position: 1,
				Required: true,
				Metadata: &model.Metadata{Options: []model.ChoiceOption{
					{Value: "cloud", Label: "Cloud"},
					{Value: "onsite", Label: "On site"},
				}},
			},
			{
				Prompt:   "Anything else to report?",
				Type:     model.LongText,
				Position: 2,
			},
		},
	}
}
