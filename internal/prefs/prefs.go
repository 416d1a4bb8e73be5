// Package prefs abstracts the device's persisted preferences.
//
// The method set is a subset of fyne.io/fyne/v2's Preferences, so the
// desktop simulator can hand the core a fyne preferences object directly.
// On hardware the store is backed by whatever key/value persistence the
// target provides; Memory is the fallback and the test double.
//
// Reads always carry a compiled-in fallback: a missing or corrupt key
// yields the fallback, never an error, so preference loss can't fail
// startup. Writes are best-effort; an implementation that can't persist
// should log and carry on.
package prefs

import "sync"

// Store is the persisted key/value settings store.
type Store interface {
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)

	IntWithFallback(key string, fallback int) int
	SetInt(key string, value int)

	FloatWithFallback(key string, fallback float64) float64
	SetFloat(key string, value float64)

	StringWithFallback(key string, fallback string) string
	SetString(key string, value string)
}

// Memory is an in-RAM Store. Values do not survive a reboot, which is fine
// for tests and for targets whose persistence adapter isn't wired yet.
//
// It holds its map behind an RWMutex: the core runs single-threaded, but
// the simulator touches preferences from UI callbacks as well.
type Memory struct {
	mu   sync.RWMutex
	vals map[string]any
}

// NewMemory creates an empty in-RAM store.
func NewMemory() *Memory {
	return &Memory{vals: map[string]any{}}
}

func (m *Memory) BoolWithFallback(key string, fallback bool) bool {
	m.mu.RLock()
	v, ok := m.vals[key].(bool)
	m.mu.RUnlock()
	if !ok {
		return fallback
	}
	return v
}

func (m *Memory) SetBool(key string, value bool) { m.set(key, value) }

func (m *Memory) IntWithFallback(key string, fallback int) int {
	m.mu.RLock()
	v, ok := m.vals[key].(int)
	m.mu.RUnlock()
	if !ok {
		return fallback
	}
	return v
}

func (m *Memory) SetInt(key string, value int) { m.set(key, value) }

func (m *Memory) FloatWithFallback(key string, fallback float64) float64 {
	m.mu.RLock()
	v, ok := m.vals[key].(float64)
	m.mu.RUnlock()
	if !ok {
		return fallback
	}
	return v
}

func (m *Memory) SetFloat(key string, value float64) { m.set(key, value) }

func (m *Memory) StringWithFallback(key string, fallback string) string {
	m.mu.RLock()
	v, ok := m.vals[key].(string)
	m.mu.RUnlock()
	if !ok {
		return fallback
	}
	return v
}

func (m *Memory) SetString(key string, value string) { m.set(key, value) }

func (m *Memory) set(key string, value any) {
	m.mu.Lock()
	m.vals[key] = value
	m.mu.Unlock()
}

// Len reports how many keys have been written. Test helper.
func (m *Memory) Len() int {
	m.mu.RLock()
	n := len(m.vals)
	m.mu.RUnlock()
	return n
}
