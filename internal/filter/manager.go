// Package filter manages per-test filter state: registration, mutation
// with change notification, and the channel-list predicates used by
// pickers.
package filter

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/leapstack-labs/logmerge/internal/frame"
	"github.com/leapstack-labs/logmerge/internal/model"
)

// Listener is invoked after a test's filter state changes.
type Listener func(testID string)

// Manager owns the filter state of every registered test and notifies
// listeners on mutation. All methods are safe for concurrent use;
// listeners run synchronously on the mutating goroutine.
type Manager struct {
	mu        sync.RWMutex
	tests     map[string]*model.Test
	listeners map[int]Listener
	nextID    int
	logger    *slog.Logger
}

// NewManager creates an empty manager. A nil logger discards logs.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		tests:     make(map[string]*model.Test),
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

// Register places a test under management. A test without filter state
// gets a fresh one.
func (m *Manager) Register(t *model.Test) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.FilterState == nil {
		t.FilterState = model.NewFilterState()
	}
	m.tests[t.ID] = t
	m.logger.Debug("registered test filter", "test", t.Name, "id", t.ID)
}

// Unregister removes a test from management. Its filter state stays on
// the test.
func (m *Manager) Unregister(testID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tests, testID)
}

// Test returns the managed test with the given id, or nil.
func (m *Manager) Test(testID string) *model.Test {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tests[testID]
}

// FilterState returns the managed test's filter state, or nil if the
// test is unknown.
func (m *Manager) FilterState(testID string) *model.FilterState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tests[testID]; ok {
		return t.FilterState
	}
	return nil
}

// AddListener subscribes to filter changes and returns a handle for
// RemoveListener.
func (m *Manager) AddListener(l Listener) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return id
}

// RemoveListener unsubscribes a previously added listener.
func (m *Manager) RemoveListener(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners, id)
}

func (m *Manager) notify(testID string) {
	m.mu.RLock()
	ls := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		ls = append(ls, l)
	}
	m.mu.RUnlock()
	for _, l := range ls {
		l(testID)
	}
}

// mutate runs fn against the test's filter state and notifies listeners
// when the test exists.
func (m *Manager) mutate(testID string, fn func(fs *model.FilterState)) bool {
	m.mu.Lock()
	t, ok := m.tests[testID]
	if !ok {
		m.mu.Unlock()
		m.logger.Warn("filter mutation on unknown test", "id", testID)
		return false
	}
	fn(t.FilterState)
	m.mu.Unlock()
	m.notify(testID)
	return true
}

// SetTimeRange sets the time window. Nil bounds clear the window.
func (m *Manager) SetTimeRange(testID string, min, max *float64) bool {
	return m.mutate(testID, func(fs *model.FilterState) {
		fs.TimeMin, fs.TimeMax = min, max
	})
}

// SetChannelFilter sets a channel's value range. Passing nil for both
// bounds removes the channel's filter.
func (m *Manager) SetChannelFilter(testID, channel string, min, max *float64) bool {
	return m.mutate(testID, func(fs *model.FilterState) {
		if min == nil && max == nil {
			delete(fs.ChannelFilters, channel)
			return
		}
		fs.ChannelFilters[channel] = model.ChannelFilter{Min: min, Max: max}
	})
}

// SetTextSearch sets the channel-name search term.
func (m *Manager) SetTextSearch(testID, text string) bool {
	return m.mutate(testID, func(fs *model.FilterState) {
		fs.TextSearch = text
	})
}

// SetCategoryFilter sets the category allow-list. Empty means all.
func (m *Manager) SetCategoryFilter(testID string, categories []string) bool {
	return m.mutate(testID, func(fs *model.FilterState) {
		fs.CategoryFilter = categories
	})
}

// SetUnitFilter sets the unit allow-list. Empty means all.
func (m *Manager) SetUnitFilter(testID string, units []string) bool {
	return m.mutate(testID, func(fs *model.FilterState) {
		fs.UnitFilter = units
	})
}

// SetEnabled toggles whether the filter applies at all.
func (m *Manager) SetEnabled(testID string, enabled bool) bool {
	return m.mutate(testID, func(fs *model.FilterState) {
		fs.Enabled = enabled
	})
}

// ClearFilters replaces the test's filter state with a fresh enabled one.
func (m *Manager) ClearFilters(testID string) bool {
	m.mu.Lock()
	t, ok := m.tests[testID]
	if !ok {
		m.mu.Unlock()
		return false
	}
	t.FilterState = model.NewFilterState()
	m.mu.Unlock()
	m.notify(testID)
	return true
}

// ApplyFilter returns fr narrowed by the test's filter state, or fr
// unchanged when the test is unknown.
func (m *Manager) ApplyFilter(testID string, fr *frame.Frame, timeCol string) *frame.Frame {
	fs := m.FilterState(testID)
	if fs == nil {
		return fr
	}
	return fs.Apply(fr, timeCol)
}

// FilteredChannels returns the test's canonical headers passing the
// text, category, and unit predicates, in canonical order. The text
// search matches the header or display name case-insensitively; channels
// without metadata are unconstrained by the category and unit allow-lists.
func (m *Manager) FilteredChannels(testID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tests[testID]
	if !ok {
		return nil
	}
	fs := t.FilterState

	var out []string
	search := strings.ToLower(fs.TextSearch)
	for _, header := range t.CanonicalHeaders {
		meta := t.CanonicalMetadata[header]
		if search != "" {
			display := ""
			if meta != nil {
				display = meta.DisplayName
			}
			if !strings.Contains(strings.ToLower(header), search) &&
				!strings.Contains(strings.ToLower(display), search) {
				continue
			}
		}
		if len(fs.CategoryFilter) > 0 && meta != nil && !contains(fs.CategoryFilter, meta.Category) {
			continue
		}
		if len(fs.UnitFilter) > 0 && meta != nil && !contains(fs.UnitFilter, meta.Unit) {
			continue
		}
		out = append(out, header)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
