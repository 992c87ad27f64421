package model

import "time"

// PatientStatus is the lifecycle state of a queue entry.
type PatientStatus string

const (
	StatusWaiting PatientStatus = "waiting"
	StatusServed  PatientStatus = "served"
	StatusLeft    PatientStatus = "left"
	StatusTimeout PatientStatus = "timeout"
)

// Terminal reports whether the status is one a patient can never leave.
func (s PatientStatus) Terminal() bool {
	return s == StatusServed || s == StatusLeft || s == StatusTimeout
}

// Patient is a single queue registration. Patients are never deleted;
// terminal entries remain for status lookups and counts.
type Patient struct {
	ID                   int64         `gorm:"primaryKey;autoIncrement"`
	Name                 string        `gorm:"size:128;not null"`
	DepartmentID         int64         `gorm:"not null;index:idx_patients_dept_status,priority:1"`
	RegisteredAt         time.Time     `gorm:"not null;index"`
	EstimatedWaitMinutes int           `gorm:"not null"`
	Status               PatientStatus `gorm:"size:16;not null;default:waiting;index:idx_patients_dept_status,priority:2"`
	Deadline             time.Time     `gorm:"not null;index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Associations
	Department Department `gorm:"constraint:OnDelete:RESTRICT"`
}
