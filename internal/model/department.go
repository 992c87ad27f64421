package model

import "time"

// Department represents a hospital service department. The set of
// departments is fixed configuration; rows are seeded at startup and
// never mutated afterwards.
type Department struct {
	ID                    int64  `gorm:"primaryKey"`
	Name                  string `gorm:"uniqueIndex;size:128;not null"`
	Description           string `gorm:"size:256"`
	AverageServiceMinutes int    `gorm:"not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Associations
	Patients []Patient `gorm:"foreignKey:DepartmentID"`
}
