package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hospital-queue-backend/internal/model"
)

// Store defines the interface for all patient persistence operations.
// Status transitions are expressed as guarded updates so that a patient
// can only ever move out of "waiting" once, whichever caller wins.
type Store interface {
	// CreatePatient inserts a new waiting patient. The position a patient
	// occupies at the insertion instant (count of already-waiting patients
	// plus one) is computed inside the same transaction and handed to
	// plan, which returns the wait estimate and deadline to persist.
	CreatePatient(ctx context.Context, name string, departmentID int64, registeredAt time.Time,
		plan func(position int) (estimateMinutes int, deadline time.Time)) (model.Patient, int, error)

	GetPatient(ctx context.Context, id int64) (model.Patient, error)

	// WaitingByDepartment returns the department's waiting patients in
	// queue order: registered_at ascending, ties broken by id.
	WaitingByDepartment(ctx context.Context, departmentID int64) ([]model.Patient, error)

	// PositionOf returns the 1-based rank of p within its department's
	// waiting queue.
	PositionOf(ctx context.Context, p model.Patient) (int, error)

	CountWaiting(ctx context.Context, departmentID int64) (int64, error)

	// WaitingCounts returns waiting patient counts keyed by department id,
	// from a single aggregate query.
	WaitingCounts(ctx context.Context) (map[int64]int64, error)

	CountByStatus(ctx context.Context, status model.PatientStatus) (int64, error)

	// FinishPatient moves a patient from waiting into the given terminal
	// status. Returns false when the patient was no longer waiting.
	FinishPatient(ctx context.Context, id int64, to model.PatientStatus) (bool, error)

	// ExpireOverdue transitions every waiting patient whose deadline has
	// passed to timeout. A zero departmentID sweeps all departments.
	// Idempotent: already-expired patients are untouched.
	ExpireOverdue(ctx context.Context, now time.Time, departmentID int64) (int64, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreatePatient(ctx context.Context, name string, departmentID int64, registeredAt time.Time,
	plan func(position int) (int, time.Time)) (model.Patient, int, error) {

	var patient model.Patient
	var position int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var waiting int64
		if err := tx.Model(&model.Patient{}).
			Where("department_id = ? AND status = ?", departmentID, model.StatusWaiting).
			Count(&waiting).Error; err != nil {
			return fmt.Errorf("failed to count waiting patients for department %d: %w", departmentID, err)
		}

		position = int(waiting) + 1
		estimate, deadline := plan(position)

		patient = model.Patient{
			Name:                 name,
			DepartmentID:         departmentID,
			RegisteredAt:         registeredAt,
			EstimatedWaitMinutes: estimate,
			Status:               model.StatusWaiting,
			Deadline:             deadline,
		}
		if err := tx.Create(&patient).Error; err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Patient{}, 0, err
	}
	return patient, position, nil
}

func (s *gormStore) GetPatient(ctx context.Context, id int64) (model.Patient, error) {
	var patient model.Patient
	if err := s.db.WithContext(ctx).First(&patient, id).Error; err != nil {
		return model.Patient{}, err
	}
	return patient, nil
}

func (s *gormStore) WaitingByDepartment(ctx context.Context, departmentID int64) ([]model.Patient, error) {
	var patients []model.Patient
	err := s.db.WithContext(ctx).
		Where("department_id = ? AND status = ?", departmentID, model.StatusWaiting).
		Order("registered_at ASC, id ASC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting patients for department %d: %w", departmentID, err)
	}
	return patients, nil
}

func (s *gormStore) PositionOf(ctx context.Context, p model.Patient) (int, error) {
	var ahead int64
	err := s.db.WithContext(ctx).Model(&model.Patient{}).
		Where("department_id = ? AND status = ?", p.DepartmentID, model.StatusWaiting).
		Where("registered_at < ? OR (registered_at = ? AND id < ?)", p.RegisteredAt, p.RegisteredAt, p.ID).
		Count(&ahead).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute position for patient %d: %w", p.ID, err)
	}
	return int(ahead) + 1, nil
}

func (s *gormStore) CountWaiting(ctx context.Context, departmentID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Patient{}).
		Where("department_id = ? AND status = ?", departmentID, model.StatusWaiting).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count waiting patients for department %d: %w", departmentID, err)
	}
	return count, nil
}

func (s *gormStore) WaitingCounts(ctx context.Context) (map[int64]int64, error) {
	type aggRow struct {
		DepartmentID int64
		Waiting      int64
	}
	var rows []aggRow
	err := s.db.WithContext(ctx).Model(&model.Patient{}).
		Select("department_id as department_id, COUNT(*) as waiting").
		Where("status = ?", model.StatusWaiting).
		Group("department_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate waiting counts: %w", err)
	}

	counts := make(map[int64]int64, len(rows))
	for _, r := range rows {
		counts[r.DepartmentID] = r.Waiting
	}
	return counts, nil
}

func (s *gormStore) CountByStatus(ctx context.Context, status model.PatientStatus) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Patient{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count patients with status %q: %w", status, err)
	}
	return count, nil
}

func (s *gormStore) FinishPatient(ctx context.Context, id int64, to model.PatientStatus) (bool, error) {
	if !to.Terminal() {
		return false, fmt.Errorf("status %q is not terminal", to)
	}
	res := s.db.WithContext(ctx).Model(&model.Patient{}).
		Where("id = ? AND status = ?", id, model.StatusWaiting).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to finish patient %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) ExpireOverdue(ctx context.Context, now time.Time, departmentID int64) (int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Patient{}).
		Where("status = ? AND deadline < ?", model.StatusWaiting, now)
	if departmentID != 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	res := q.Update("status", model.StatusTimeout)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to expire overdue patients: %w", res.Error)
	}
	return res.RowsAffected, nil
}
