package services

import (
	"context"
	"sync"

	"github.com/adarshh12/grocery-inventory/models"
)

// MockReportArchiver keeps archived reports in memory for testing
type MockReportArchiver struct {
	objects map[string][]byte
	err     error
	mu      sync.RWMutex
}

// NewMockReportArchiver creates an empty in-memory archiver
func NewMockReportArchiver() *MockReportArchiver {
	return &MockReportArchiver{objects: make(map[string][]byte)}
}

// FailWith makes subsequent archive calls return err
func (m *MockReportArchiver) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ArchiveReport stores the encoded report under its archive key
func (m *MockReportArchiver) ArchiveReport(ctx context.Context, report *models.Report) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}

	body, err := encodeReport(report)
	if err != nil {
		return "", err
	}
	key := ReportArchiveKey(report)
	m.objects[key] = body
	return key, nil
}

// Object returns the stored body for key
func (m *MockReportArchiver) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[key]
	return body, ok
}

// Count returns the number of archived reports
func (m *MockReportArchiver) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
