package models

import "time"

// Respondent is an employee allowed to answer the survey once.
type Respondent struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Identifier  string     `gorm:"column:cpf;size:20;uniqueIndex;not null" json:"cpf"`
	BirthDate   string     `gorm:"column:data_nascimento;size:10;not null" json:"data_nascimento"`
	Completed   bool       `gorm:"column:respondeu;not null;default:false" json:"respondeu"`
	CompletedAt *time.Time `gorm:"column:respondido_em" json:"respondido_em,omitempty"`
}

func (Respondent) TableName() string {
	return "colaboradores"
}
