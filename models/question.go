package models

type Question struct {
	ID         uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Text       string   `gorm:"column:question_text;type:text;not null" json:"question_text"`
	OrderIndex int      `gorm:"column:order_index;uniqueIndex;not null" json:"order_index"`
	Options    []Option `gorm:"foreignKey:QuestionID" json:"options"`
}

func (Question) TableName() string {
	return "form_questions"
}

type Option struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuestionID uint   `gorm:"column:question_id;not null;index" json:"question_id"`
	Label      string `gorm:"column:option_label;size:255;not null" json:"option_label"`
	Value      string `gorm:"column:option_value;size:255;not null" json:"option_value"`
	OrderIndex int    `gorm:"column:order_index;default:0" json:"order_index"`

	Question Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Option) TableName() string {
	return "form_options"
}
