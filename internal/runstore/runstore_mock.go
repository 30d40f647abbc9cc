package runstore

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, oldLabel, newLabel string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, oldLabel, newLabel, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, summary schema.ReportSummary) error {
	args := m.Called(runID, endTime, summary)
	return args.Error(0)
}

// RecordDeltas implements the RunStore interface.
func (m *MockRunStore) RecordDeltas(runID int64, deltas []schema.DeltaRecord) error {
	args := m.Called(runID, deltas)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllDeltas implements the RunStore interface.
func (m *MockRunStore) GetAllDeltas() ([]schema.DeltaRecord, error) {
	args := m.Called()
	deltas, _ := args.Get(0).([]schema.DeltaRecord)
	return deltas, args.Error(1)
}

// Clear implements the RunStore interface.
func (m *MockRunStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
