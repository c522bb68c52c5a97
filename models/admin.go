package models

type Admin struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"column:username;size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"column:password;size:255;not null" json:"-"`
}

func (Admin) TableName() string {
	return "admins"
}
