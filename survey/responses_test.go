package survey_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarnt28/survey-response-Host/model"
	"github.com/aarnt28/survey-response-Host/survey"
)

func answersFor(form model.Form, values ...string) []model.AnswerSpec {
	answers := make([]model.AnswerSpec, 0, len(values))
	for i, v := range values {
		answers = append(answers, model.AnswerSpec{QuestionID: form.Questions[i].ID, Value: v})
	}
	return answers
}

func TestSubmitResponse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	form := createForm(t, db, officeCheckSpec())

	group, err := submitResponse(t, db, "office-check", model.ResponseSpec{
		RespondentIdentifier: "clinic-042",
		Notes:                "submitted on site",
		Answers:              answersFor(form, "25", "cloud", "all good"),
	})
	require.NoError(t, err)

	assert.NotZero(t, group.ID)
	assert.Equal(t, 1, group.FormVersion)
	assert.Equal(t, "clinic-042", group.RespondentIdentifier)
	assert.False(t, group.SubmittedAt.IsZero())
	require.Len(t, group.Answers, 3)

	got, err := survey.GetResponse(ctx, db, "office-check", group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
	assert.Equal(t, "submitted on site", got.Notes)
	require.Len(t, got.Answers, 3)
	assert.Equal(t, form.Questions[0].ID, got.Answers[0].QuestionID)
	assert.Equal(t, "25", got.Answers[0].Value)
}

func TestSubmitResponsePinsFormVersion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	form := createForm(t, db, officeCheckSpec())
	first, err := submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: answersFor(form, "10", "onsite"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.FormVersion)

	updated, err := updateForm(t, db, "office-check", model.FormUpdate{
		Title: "Office check v2",
		Questions: []model.QuestionSpec{
			{Prompt: "Any comments?", Type: model.ShortText, Position: 0},
		},
	})
	require.NoError(t, err)

	second, err := submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: []model.AnswerSpec{{QuestionID: updated.Questions[0].ID, Value: "fine"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.FormVersion)

	// the earlier group stays pinned to the version it was validated against
	got, err := survey.GetResponse(ctx, db, "office-check", first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.FormVersion)
	require.Len(t, got.Answers, 2, "answers against detached questions must survive the update")
	assert.Equal(t, "10", got.Answers[0].Value)
}

func TestSubmitResponseUnknownQuestion(t *testing.T) {
	db := newTestDB(t)

	createForm(t, db, officeCheckSpec())

	_, err := submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: []model.AnswerSpec{{QuestionID: 99999, Value: "1"}},
	})
	require.ErrorIs(t, err, survey.ErrUnknownQuestion)
	assert.Contains(t, err.Error(), "99999")
}

func TestSubmitResponseMissingRequired(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	form := createForm(t, db, officeCheckSpec())

	// answer only the optional free-text question
	_, err := submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: []model.AnswerSpec{{QuestionID: form.Questions[2].ID, Value: "just notes"}},
	})
	require.ErrorIs(t, err, survey.ErrMissingRequired)
	assert.Contains(t, err.Error(), "How many workstations are in use?")
	assert.Contains(t, err.Error(), "Where are backups stored?")

	// all-or-nothing: nothing was persisted
	groups, err := survey.ListResponses(ctx, db, "office-check", true)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSubmitResponseValidationPropagates(t *testing.T) {
	db := newTestDB(t)

	form := createForm(t, db, officeCheckSpec())

	_, err := submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: answersFor(form, "abc", "cloud"),
	})
	require.ErrorIs(t, err, survey.ErrNotNumeric)

	_, err = submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: answersFor(form, "-3", "cloud"),
	})
	require.ErrorIs(t, err, survey.ErrBelowMinimum)

	_, err = submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: answersFor(form, "3", "tape"),
	})
	require.ErrorIs(t, err, survey.ErrInvalidChoice)
}

func TestSubmitResponseEmptySelectionOnRequired(t *testing.T) {
	db := newTestDB(t)

	form := createForm(t, db, model.FormSpec{
		Slug:  "tooling",
		Title: "Tooling survey",
		Questions: []model.QuestionSpec{
			{Prompt: "Which tools do you use?", Type: model.MultipleChoice, Position: 0, Required: true,
				Metadata: &model.Metadata{Options: []model.ChoiceOption{
					{Value: "editor", Label: "Editor"},
					{Value: "debugger", Label: "Debugger"},
				}}},
		},
	})

	// an answer row whose value selects nothing does not satisfy a
	// required question
	_, err := submitResponse(t, db, "tooling", model.ResponseSpec{
		Answers: []model.AnswerSpec{{QuestionID: form.Questions[0].ID, Value: " , "}},
	})
	require.ErrorIs(t, err, survey.ErrMissingRequired)

	_, err = submitResponse(t, db, "tooling", model.ResponseSpec{
		Answers: []model.AnswerSpec{{QuestionID: form.Questions[0].ID, Value: "editor, debugger"}},
	})
	require.NoError(t, err)
}

func TestSubmitResponseArchivedForm(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	form := createForm(t, db, officeCheckSpec())
	before, err := submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: answersFor(form, "5", "cloud"),
	})
	require.NoError(t, err)

	setFormArchived(t, db, "office-check", true)

	_, err = submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: answersFor(form, "5", "cloud"),
	})
	require.ErrorIs(t, err, survey.ErrFormArchived)

	// existing responses stay listable and readable
	groups, err := survey.ListResponses(ctx, db, "office-check", false)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, before.ID, groups[0].ID)
}

func TestSubmitResponseNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := submitResponse(t, db, "no-such-form", model.ResponseSpec{})
	require.ErrorIs(t, err, survey.ErrNotFound)
}

func TestSetResponseArchived(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	form := createForm(t, db, officeCheckSpec())
	group, err := submitResponse(t, db, "office-check", model.ResponseSpec{
		Answers: answersFor(form, "5", "cloud"),
	})
	require.NoError(t, err)

	var archived model.ResponseGroup
	err = inTx(t, db, func(tx *sql.Tx) (err error) {
		archived, err = survey.SetResponseArchived(ctx, tx, "office-check", group.ID, true)
		return
	})
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	require.NotNil(t, archived.ArchivedAt)

	// archiving a response does not archive the form
	f, err := survey.GetForm(ctx, db, "office-check")
	require.NoError(t, err)
	assert.False(t, f.IsArchived)

	groups, err := survey.ListResponses(ctx, db, "office-check", false)
	require.NoError(t, err)
	assert.Empty(t, groups)

	groups, err = survey.ListResponses(ctx, db, "office-check", true)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	// direct lookup ignores the archive flag
	got, err := survey.GetResponse(ctx, db, "office-check", group.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	err = inTx(t, db, func(tx *sql.Tx) (err error) {
		_, err = survey.SetResponseArchived(ctx, tx, "office-check", group.ID, false)
		return
	})
	require.NoError(t, err)

	groups, err = survey.ListResponses(ctx, db, "office-check", false)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestGetResponseNotFound(t *testing.T) {
	db := newTestDB(t)

	createForm(t, db, officeCheckSpec())

	_, err := survey.GetResponse(context.Background(), db, "office-check", 12345)
	require.ErrorIs(t, err, survey.ErrNotFound)
}
