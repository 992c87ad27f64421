package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"hospital-queue-backend/config"
	"hospital-queue-backend/internal/model"
	"hospital-queue-backend/internal/store"
)

// Engine orchestrates the per-department patient queues: registration,
// status lookups, leave/serve transitions and the crowd snapshots.
//
// Every operation sweeps overdue patients before it reads or mutates the
// waiting set, inside a per-department critical section, so no caller
// ever observes a patient past their deadline still marked waiting and
// no two concurrent registrations can be assigned the same position.
type Engine struct {
	cfg   *config.Config
	store store.Store

	departments map[int64]config.DepartmentConfig
	deptOrder   []int64 // ascending ids; lock acquisition order
	locks       map[int64]*sync.Mutex
}

// NewEngine creates an engine over the given store and configuration.
func NewEngine(cfg *config.Config, s store.Store) *Engine {
	departments := make(map[int64]config.DepartmentConfig, len(cfg.Departments))
	locks := make(map[int64]*sync.Mutex, len(cfg.Departments))
	order := make([]int64, 0, len(cfg.Departments))
	for _, d := range cfg.Departments {
		departments[d.ID] = d
		locks[d.ID] = &sync.Mutex{}
		order = append(order, d.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	return &Engine{
		cfg:         cfg,
		store:       s,
		departments: departments,
		deptOrder:   order,
		locks:       locks,
	}
}

// Registration is the result of a successful register call.
type Registration struct {
	Patient    model.Patient
	Position   int
	CrowdLevel CrowdLevel
}

// StatusView is what a patient sees when polling their own status.
// Position and EstimatedWaitMinutes are meaningful only while waiting;
// the estimate is the frozen registration-time snapshot, the position
// is live.
type StatusView struct {
	PatientID            int64
	Name                 string
	DepartmentID         int64
	Status               model.PatientStatus
	Position             int
	EstimatedWaitMinutes int
	CrowdLevel           CrowdLevel
}

// DepartmentSnapshot is the dashboard view of one department.
type DepartmentSnapshot struct {
	DepartmentID          int64
	Name                  string
	AverageServiceMinutes int
	WaitingCount          int64
	CrowdLevel            CrowdLevel
}

// HospitalSnapshot is the dashboard view of the whole hospital.
type HospitalSnapshot struct {
	TotalWaiting int64
	TotalServed  int64
	CrowdLevel   CrowdLevel
	Departments  []DepartmentSnapshot
}

// Departments returns the configured department set in config order.
func (e *Engine) Departments() []config.DepartmentConfig {
	return e.cfg.Departments
}

func (e *Engine) departmentThresholds() Thresholds {
	return Thresholds{LowMax: e.cfg.Queue.DepartmentLowMax, ModerateMax: e.cfg.Queue.DepartmentModerateMax}
}

func (e *Engine) hospitalThresholds() Thresholds {
	return Thresholds{LowMax: e.cfg.Queue.HospitalLowMax, ModerateMax: e.cfg.Queue.HospitalModerateMax}
}

// lockAll acquires every department lock in ascending id order. Used by
// hospital-wide operations so a single sweep pass covers the aggregate.
func (e *Engine) lockAll() func() {
	for _, id := range e.deptOrder {
		e.locks[id].Lock()
	}
	return func() {
		for i := len(e.deptOrder) - 1; i >= 0; i-- {
			e.locks[e.deptOrder[i]].Unlock()
		}
	}
}

// Register creates a new waiting patient. The position, the frozen wait
// estimate and the no-show deadline are all derived from the waiting
// count at the insertion instant, atomically with the insert itself.
func (e *Engine) Register(ctx context.Context, name string, departmentID int64, now time.Time) (Registration, error) {
	dept, ok := e.departments[departmentID]
	if !ok {
		return Registration{}, ErrInvalidDepartment
	}

	mu := e.locks[departmentID]
	mu.Lock()
	defer mu.Unlock()

	if _, err := e.store.ExpireOverdue(ctx, now, departmentID); err != nil {
		return Registration{}, err
	}

	patient, position, err := e.store.CreatePatient(ctx, name, departmentID, now, func(position int) (int, time.Time) {
		estimate := Estimate(position, dept.AverageServiceMinutes)
		deadline := now.Add(time.Duration(estimate)*time.Minute + e.cfg.Queue.GracePeriod)
		return estimate, deadline
	})
	if err != nil {
		return Registration{}, err
	}

	waiting, err := e.store.CountWaiting(ctx, departmentID)
	if err != nil {
		return Registration{}, err
	}

	return Registration{
		Patient:    patient,
		Position:   position,
		CrowdLevel: Classify(int(waiting), e.departmentThresholds()),
	}, nil
}

// StatusOf reports a patient's current state. Waiting patients get their
// live position alongside the frozen registration-time estimate; terminal
// patients get the terminal status only.
func (e *Engine) StatusOf(ctx context.Context, patientID int64, now time.Time) (StatusView, error) {
	patient, err := e.store.GetPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatusView{}, ErrNotFound
		}
		return StatusView{}, fmt.Errorf("failed to load patient %d: %w", patientID, err)
	}

	mu, ok := e.locks[patient.DepartmentID]
	if !ok {
		return StatusView{}, fmt.Errorf("patient %d references unknown department %d", patientID, patient.DepartmentID)
	}
	mu.Lock()
	defer mu.Unlock()

	if _, err := e.store.ExpireOverdue(ctx, now, patient.DepartmentID); err != nil {
		return StatusView{}, err
	}

	// Re-read under the lock; the sweep may have just expired them.
	patient, err = e.store.GetPatient(ctx, patientID)
	if err != nil {
		return StatusView{}, fmt.Errorf("failed to reload patient %d: %w", patientID, err)
	}

	view := StatusView{
		PatientID:    patient.ID,
		Name:         patient.Name,
		DepartmentID: patient.DepartmentID,
		Status:       patient.Status,
	}
	if patient.Status != model.StatusWaiting {
		return view, nil
	}

	position, err := e.store.PositionOf(ctx, patient)
	if err != nil {
		return StatusView{}, err
	}
	waiting, err := e.store.CountWaiting(ctx, patient.DepartmentID)
	if err != nil {
		return StatusView{}, err
	}

	view.Position = position
	view.EstimatedWaitMinutes = patient.EstimatedWaitMinutes
	view.CrowdLevel = Classify(int(waiting), e.departmentThresholds())
	return view, nil
}

// WaitingList returns the department's waiting patients in queue order,
// after sweeping overdue entries.
func (e *Engine) WaitingList(ctx context.Context, departmentID int64, now time.Time) ([]model.Patient, error) {
	if _, ok := e.departments[departmentID]; !ok {
		return nil, ErrInvalidDepartment
	}

	mu := e.locks[departmentID]
	mu.Lock()
	defer mu.Unlock()

	if _, err := e.store.ExpireOverdue(ctx, now, departmentID); err != nil {
		return nil, err
	}
	return e.store.WaitingByDepartment(ctx, departmentID)
}

// LeaveQueue transitions a waiting patient to left.
func (e *Engine) LeaveQueue(ctx context.Context, patientID int64, now time.Time) error {
	return e.finish(ctx, patientID, model.StatusLeft, now)
}

// MarkServed transitions a waiting patient to served.
func (e *Engine) MarkServed(ctx context.Context, patientID int64, now time.Time) error {
	return e.finish(ctx, patientID, model.StatusServed, now)
}

func (e *Engine) finish(ctx context.Context, patientID int64, to model.PatientStatus, now time.Time) error {
	patient, err := e.store.GetPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load patient %d: %w", patientID, err)
	}

	mu, ok := e.locks[patient.DepartmentID]
	if !ok {
		return fmt.Errorf("patient %d references unknown department %d", patientID, patient.DepartmentID)
	}
	mu.Lock()
	defer mu.Unlock()

	// Sweep first: a patient past their deadline is already timed out and
	// can no longer leave or be served.
	if _, err := e.store.ExpireOverdue(ctx, now, patient.DepartmentID); err != nil {
		return err
	}

	updated, err := e.store.FinishPatient(ctx, patientID, to)
	if err != nil {
		return err
	}
	if !updated {
		return ErrAlreadyTerminal
	}
	return nil
}

// DepartmentSnapshot reports the waiting count and crowd level for one
// department.
func (e *Engine) DepartmentSnapshot(ctx context.Context, departmentID int64, now time.Time) (DepartmentSnapshot, error) {
	dept, ok := e.departments[departmentID]
	if !ok {
		return DepartmentSnapshot{}, ErrInvalidDepartment
	}

	mu := e.locks[departmentID]
	mu.Lock()
	defer mu.Unlock()

	if _, err := e.store.ExpireOverdue(ctx, now, departmentID); err != nil {
		return DepartmentSnapshot{}, err
	}
	waiting, err := e.store.CountWaiting(ctx, departmentID)
	if err != nil {
		return DepartmentSnapshot{}, err
	}

	return DepartmentSnapshot{
		DepartmentID:          dept.ID,
		Name:                  dept.Name,
		AverageServiceMinutes: dept.AverageServiceMinutes,
		WaitingCount:          waiting,
		CrowdLevel:            Classify(int(waiting), e.departmentThresholds()),
	}, nil
}

// HospitalSnapshot aggregates all departments under one sweep pass.
func (e *Engine) HospitalSnapshot(ctx context.Context, now time.Time) (HospitalSnapshot, error) {
	unlock := e.lockAll()
	defer unlock()

	if _, err := e.store.ExpireOverdue(ctx, now, 0); err != nil {
		return HospitalSnapshot{}, err
	}

	counts, err := e.store.WaitingCounts(ctx)
	if err != nil {
		return HospitalSnapshot{}, err
	}
	served, err := e.store.CountByStatus(ctx, model.StatusServed)
	if err != nil {
		return HospitalSnapshot{}, err
	}

	snapshot := HospitalSnapshot{
		TotalServed: served,
		Departments: make([]DepartmentSnapshot, 0, len(e.cfg.Departments)),
	}
	for _, dept := range e.cfg.Departments {
		waiting := counts[dept.ID]
		snapshot.TotalWaiting += waiting
		snapshot.Departments = append(snapshot.Departments, DepartmentSnapshot{
			DepartmentID:          dept.ID,
			Name:                  dept.Name,
			AverageServiceMinutes: dept.AverageServiceMinutes,
			WaitingCount:          waiting,
			CrowdLevel:            Classify(int(waiting), e.departmentThresholds()),
		})
	}
	snapshot.CrowdLevel = Classify(int(snapshot.TotalWaiting), e.hospitalThresholds())
	return snapshot, nil
}

// SweepAll expires every overdue patient across all departments and
// returns the number of newly expired entries.
func (e *Engine) SweepAll(ctx context.Context, now time.Time) (int64, error) {
	unlock := e.lockAll()
	defer unlock()

	return e.store.ExpireOverdue(ctx, now, 0)
}
