package iocache

import (
	"time"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetEmbeddingStore implements the CacheManager interface.
func (m *MockCacheManager) GetEmbeddingStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetHistoryStore implements the CacheManager interface.
func (m *MockCacheManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, engine schema.CandidateKind, user string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, engine, user, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordResults implements the HistoryStore interface.
func (m *MockHistoryStore) RecordResults(runID int64, recordedAt time.Time, results []schema.ScoredCandidate) error {
	args := m.Called(runID, recordedAt, results)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalResults int) error {
	args := m.Called(runID, endTime, totalResults)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RankRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RankRunRecord)
	return runs, args.Error(1)
}

// GetAllResults implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllResults() ([]schema.RankResultRecord, error) {
	args := m.Called()
	results, _ := args.Get(0).([]schema.RankResultRecord)
	return results, args.Error(1)
}

// GetLatestResults implements the HistoryStore interface.
func (m *MockHistoryStore) GetLatestResults(user string, engine schema.CandidateKind) ([]schema.RankResultRecord, error) {
	args := m.Called(user, engine)
	results, _ := args.Get(0).([]schema.RankResultRecord)
	return results, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
