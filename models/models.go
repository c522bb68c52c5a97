package models

// All lists every model handled by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&Respondent{},
		&Admin{},
		&Question{},
		&Option{},
		&Response{},
		&ResponseAnswer{},
		&ReportChart{},
	}
}
