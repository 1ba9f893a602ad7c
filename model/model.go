package model

import "time"

type QuestionType string

const (
	ShortText      QuestionType = "short_text"
	LongText       QuestionType = "long_text"
	Integer        QuestionType = "integer"
	Decimal        QuestionType = "decimal"
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
)

type ChoiceOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Metadata is the wire and storage shape of a question's constraints: a flat
// bag whose meaningful fields depend on the question type. The survey package
// decodes it into the typed variant matching the type.
type Metadata struct {
	MinValue    *float64       `json:"min_value,omitempty"`
	MaxValue    *float64       `json:"max_value,omitempty"`
	Pattern     string         `json:"pattern,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Options     []ChoiceOption `json:"options,omitempty"`
}

type Form struct {
	ID          int        `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	IsArchived  bool       `json:"is_archived"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID       int          `json:"id"`
	Prompt   string       `json:"prompt"`
	Type     QuestionType `json:"type"`
	Position int          `json:"position"`
	Required bool         `json:"required"`
	Metadata *Metadata    `json:"metadata,omitempty"`
}

type FormVersion struct {
	ID          int               `json:"id"`
	Version     int               `json:"version"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Snapshot    QuestionsSnapshot `json:"questions_snapshot"`
	CreatedAt   time.Time         `json:"created_at"`
}

// QuestionsSnapshot is the durable record of a form's question set at one
// version, ordered by ascending position. Snapshots are written once and
// never mutated.
type QuestionsSnapshot struct {
	Questions []SnapshotQuestion `json:"questions"`
}

type SnapshotQuestion struct {
	Prompt   string       `json:"prompt"`
	Type     QuestionType `json:"type"`
	Position int          `json:"position"`
	Required bool         `json:"required"`
	Metadata *Metadata    `json:"metadata"`
}

type ResponseGroup struct {
	ID                   int        `json:"id"`
	FormID               int        `json:"form_id"`
	RespondentIdentifier string     `json:"respondent_identifier,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	SubmittedAt          time.Time  `json:"submitted_at"`
	FormVersion          int        `json:"form_version"`
	IsArchived           bool       `json:"is_archived"`
	ArchivedAt           *time.Time `json:"archived_at,omitempty"`
	Answers              []Answer   `json:"answers"`
}

type Answer struct {
	ID         int    `json:"id"`
	QuestionID int    `json:"question_id"`
	Value      string `json:"value"`
}

type QuestionSpec struct {
	Prompt   string       `json:"prompt" validate:"required"`
	Type     QuestionType `json:"type" validate:"required,oneof=short_text long_text integer decimal single_choice multiple_choice"`
	Position int          `json:"position" validate:"gte=0"`
	Required bool         `json:"required"`
	Metadata *Metadata    `json:"metadata,omitempty"`
}

type FormSpec struct {
	Slug        string         `json:"slug" validate:"required,min=3,max=100"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Questions   []QuestionSpec `json:"questions" validate:"dive"`
}

type FormUpdate struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Questions   []QuestionSpec `json:"questions" validate:"dive"`
}

type AnswerSpec struct {
	QuestionID int    `json:"question_id" validate:"required"`
	Value      string `json:"value"`
}

type ResponseSpec struct {
	RespondentIdentifier string       `json:"respondent_identifier,omitempty"`
	Notes                string       `json:"notes,omitempty"`
	Answers              []AnswerSpec `json:"answers" validate:"dive"`
}

type ArchiveAction struct {
	Archived bool `json:"archived"`
}
