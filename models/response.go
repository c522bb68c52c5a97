package models

import "time"

type Response struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RespondentID uint      `gorm:"column:colaborador_id;uniqueIndex;not null" json:"colaborador_id"`
	SubmittedAt  time.Time `gorm:"column:data_resposta;not null;index" json:"data_resposta"`

	Respondent Respondent       `gorm:"foreignKey:RespondentID;constraint:OnDelete:RESTRICT" json:"-"`
	Answers    []ResponseAnswer `gorm:"foreignKey:ResponseID" json:"answers"`
}

func (Response) TableName() string {
	return "respostas"
}

// ResponseAnswer holds the value a response gave to one catalog question.
type ResponseAnswer struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ResponseID uint   `gorm:"column:resposta_id;not null;uniqueIndex:idx_answer_response_question" json:"resposta_id"`
	QuestionID uint   `gorm:"column:question_id;not null;uniqueIndex:idx_answer_response_question;index" json:"question_id"`
	Answer     string `gorm:"column:answer;type:text;not null" json:"answer"`

	Response Response `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"-"`
	Question Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (ResponseAnswer) TableName() string {
	return "response_answers"
}
