package model

type Survey struct {
	ID        int64      `json:"id,omitempty"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions,omitempty"`
}

type Question struct {
	ID           int64         `json:"id,omitempty"`
	SurveyID     int64         `json:"survey_id,omitempty"`
	Text         string        `json:"text"`
	MarkdownText string        `json:"markdown_text,omitempty"`
	Comment      string        `json:"comment,omitempty"`
	Scales       []LikertScale `json:"likert_scales,omitempty"`
}

type LikertScale struct {
	ID         int64  `json:"id,omitempty"`
	QuestionID int64  `json:"question_id,omitempty"`
	ScaleText  string `json:"scale_text"`
}

type Response struct {
	ID         int64  `json:"id,omitempty"`
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
	Comment    string `json:"comment,omitempty"`
	SessionID  string `json:"session_id"`
}

type Session struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuestionEntry is one question definition as submitted by the authoring
// form. The HTTP boundary zips the form's parallel arrays into these before
// anything touches the store.
type QuestionEntry struct {
	Text         string
	Comment      string
	MarkdownText string
	LikertCSV    string
}
