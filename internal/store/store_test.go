package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hospital-queue-backend/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestExpireOverdueReportsNewlyExpired(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "patients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	expired, err := s.ExpireOverdue(context.Background(), now, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireOverdueNothingToDo(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "patients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	expired, err := s.ExpireOverdue(context.Background(), time.Now(), 3)
	require.NoError(t, err)
	assert.Zero(t, expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinishPatientLosesRace(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	// Another caller got there first: the guarded update matches no rows.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "patients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	updated, err := s.FinishPatient(context.Background(), 7, model.StatusServed)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinishPatientRejectsNonTerminalStatus(t *testing.T) {
	gormDB, _ := newMockDB(t)
	s := NewGormStore(gormDB)

	_, err := s.FinishPatient(context.Background(), 7, model.StatusWaiting)
	assert.Error(t, err)
}

// newSQLiteStore builds a store over a fresh in-memory database for
// behavioral tests that exercise real SQL.
func newSQLiteStore(t *testing.T) Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gormDB.AutoMigrate(&model.Department{}, &model.Patient{}))
	return NewGormStore(gormDB)
}

func TestCreatePatientPlansFromInsertionPosition(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	deadline := now.Add(10 * time.Minute)

	var planned []int
	plan := func(position int) (int, time.Time) {
		planned = append(planned, position)
		return (position - 1) * 5, deadline
	}

	first, pos, err := s.CreatePatient(ctx, "Alice", 2, now, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 0, first.EstimatedWaitMinutes)
	assert.Equal(t, model.StatusWaiting, first.Status)

	second, pos, err := s.CreatePatient(ctx, "Bob", 2, now, plan)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 5, second.EstimatedWaitMinutes)
	assert.Greater(t, second.ID, first.ID)

	assert.Equal(t, []int{1, 2}, planned)
}

func TestWaitingByDepartmentOrdersByTimeThenID(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := func(position int) (int, time.Time) { return 0, base.Add(time.Hour) }

	// Second patient registered earlier than the first; third ties with
	// the first on registration time.
	late, _, err := s.CreatePatient(ctx, "Late", 1, base.Add(time.Minute), plan)
	require.NoError(t, err)
	early, _, err := s.CreatePatient(ctx, "Early", 1, base, plan)
	require.NoError(t, err)
	tied, _, err := s.CreatePatient(ctx, "Tied", 1, base.Add(time.Minute), plan)
	require.NoError(t, err)

	// Other departments must not leak in.
	_, _, err = s.CreatePatient(ctx, "Elsewhere", 2, base, plan)
	require.NoError(t, err)

	waiting, err := s.WaitingByDepartment(ctx, 1)
	require.NoError(t, err)
	require.Len(t, waiting, 3)
	assert.Equal(t, early.ID, waiting[0].ID)
	assert.Equal(t, late.ID, waiting[1].ID)
	assert.Equal(t, tied.ID, waiting[2].ID)

	pos, err := s.PositionOf(ctx, tied)
	require.NoError(t, err)
	assert.Equal(t, 3, pos)
}

func TestWaitingCountsAggregate(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	plan := func(position int) (int, time.Time) { return 0, now.Add(time.Hour) }

	for i := 0; i < 3; i++ {
		_, _, err := s.CreatePatient(ctx, fmt.Sprintf("D1-%d", i), 1, now, plan)
		require.NoError(t, err)
	}
	served, _, err := s.CreatePatient(ctx, "D2-served", 2, now, plan)
	require.NoError(t, err)
	updated, err := s.FinishPatient(ctx, served.ID, model.StatusServed)
	require.NoError(t, err)
	require.True(t, updated)

	counts, err := s.WaitingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[1])
	assert.Zero(t, counts[2])

	servedCount, err := s.CountByStatus(ctx, model.StatusServed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), servedCount)
}
