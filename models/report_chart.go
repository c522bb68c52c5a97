package models

import "time"

// ReportChart is a rendered pie chart from one dashboard generation.
type ReportChart struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	GenerationID string    `gorm:"column:generation_id;size:36;index;not null" json:"generation_id"`
	QuestionID   uint      `gorm:"column:question_id;not null" json:"question_id"`
	QuestionText string    `gorm:"column:question_text;type:text" json:"question_text"`
	PNG          []byte    `gorm:"column:png;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (ReportChart) TableName() string {
	return "report_charts"
}
