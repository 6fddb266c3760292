package model

// MigrateAble lists every model registered for gorm auto migration
var MigrateAble = []interface{}{
	&User{},
	&StudentProfile{},
	&Internship{},
	&RecruiterProfile{},
	&Posting{},
	&AuditEntry{},
	&Applicant{},
}
