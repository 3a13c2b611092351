/* test_mocks.go
 * Contains mock structures for testing the API package and the bot handlers
 * Authors: Zachary Bower
 */

package api

import (
	"sync"

	"tabletop-bot/tournament/store"
)

// MockStore implements the store interface in memory for testing
type MockStore struct {
	mu      sync.Mutex
	Active   map[string]*store.EventRecord
	Archived map[string]*store.EventRecord

	// Error injection for testing error paths
	SaveError    error
	LoadAllError error
	ArchiveError error

	// SaveCount tracks how many times Save was called
	SaveCount int
}

// NewMockStore creates a new MockStore with empty storage
func NewMockStore() *MockStore {
	return &MockStore{
		Active:   make(map[string]*store.EventRecord),
		Archived: make(map[string]*store.EventRecord),
	}
}

// Save mock implementation
func (m *MockStore) Save(record *store.EventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.SaveCount++
	m.Active[record.ID] = record
	return nil
}

// LoadAll mock implementation
func (m *MockStore) LoadAll() ([]*store.EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadAllError != nil {
		return nil, m.LoadAllError
	}
	var records []*store.EventRecord
	for _, r := range m.Active {
		records = append(records, r)
	}
	return records, nil
}

// Archive mock implementation
func (m *MockStore) Archive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ArchiveError != nil {
		return m.ArchiveError
	}
	m.Archived[id] = m.Active[id]
	delete(m.Active, id)
	return nil
}

// Ensure MockStore implements the store interface
var _ store.Interface = (*MockStore)(nil)

// MockRoster resolves names from a fixed map; missing ids return an error to
// exercise the soft-failure path
type MockRoster struct {
	Names map[string]string
	// LookupError, when set, fails every lookup
	LookupError error
}

func (m *MockRoster) DisplayName(userID string) (string, error) {
	if m.LookupError != nil {
		return "", m.LookupError
	}
	return m.Names[userID], nil
}

// MockNotifier records delivered notifications
type MockNotifier struct {
	mu       sync.Mutex
	Messages map[string][]string
	// NotifyError, when set, fails every delivery
	NotifyError error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Messages: make(map[string][]string)}
}

func (m *MockNotifier) Notify(userID string, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NotifyError != nil {
		return m.NotifyError
	}
	m.Messages[userID] = append(m.Messages[userID], message)
	return nil
}
