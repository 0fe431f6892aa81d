// Package testutil provides test utilities for testing the harness itself.
package testutil

import (
	"fmt"
	"runtime"
	"testing"
)

// MockT is a mock testing.TB that captures test failures for testing.
// It is used to test functions that call testing.T methods like Fatal,
// Error, and Cleanup.
type MockT struct {
	testing.TB // embed to satisfy unexported methods
	Failed_    bool
	Fatal_     bool
	Messages   []string

	cleanups []func()
}

// NewMockT creates a new MockT instance.
func NewMockT() *MockT {
	return &MockT{}
}

// Helper implements testing.TB.
func (m *MockT) Helper() {}

// Cleanup implements testing.TB. Registered functions run in LIFO order
// when RunWithMockT returns from the test body.
func (m *MockT) Cleanup(fn func()) {
	m.cleanups = append(m.cleanups, fn)
}

// Log implements testing.TB.
func (m *MockT) Log(args ...any) {}

// Logf implements testing.TB.
func (m *MockT) Logf(format string, args ...any) {}

// Error implements testing.TB.
func (m *MockT) Error(args ...any) {
	m.Failed_ = true
	m.Messages = append(m.Messages, fmt.Sprint(args...))
}

// Errorf implements testing.TB.
func (m *MockT) Errorf(format string, args ...any) {
	m.Failed_ = true
	m.Messages = append(m.Messages, fmt.Sprintf(format, args...))
}

// Fail implements testing.TB.
func (m *MockT) Fail() { m.Failed_ = true }

// FailNow implements testing.TB.
func (m *MockT) FailNow() {
	m.Failed_ = true
	m.Fatal_ = true
	runtime.Goexit()
}

// Failed implements testing.TB.
func (m *MockT) Failed() bool { return m.Failed_ }

// Fatal implements testing.TB.
func (m *MockT) Fatal(args ...any) {
	m.Failed_ = true
	m.Fatal_ = true
	m.Messages = append(m.Messages, fmt.Sprint(args...))
	runtime.Goexit()
}

// Fatalf implements testing.TB.
func (m *MockT) Fatalf(format string, args ...any) {
	m.Failed_ = true
	m.Fatal_ = true
	m.Messages = append(m.Messages, fmt.Sprintf(format, args...))
	runtime.Goexit()
}

// LastMessage returns the most recently captured message, or "".
func (m *MockT) LastMessage() string {
	if len(m.Messages) == 0 {
		return ""
	}
	return m.Messages[len(m.Messages)-1]
}

// RunCleanups invokes registered cleanup functions in LIFO order. Each
// cleanup runs on its own goroutine so a Fatal inside one cleanup does not
// skip the rest, matching the testing package's behavior closely enough
// for harness tests.
func (m *MockT) RunCleanups() {
	for i := len(m.cleanups) - 1; i >= 0; i-- {
		fn := m.cleanups[i]
		done := make(chan struct{})
		go func() {
			defer close(done)
			fn()
		}()
		<-done
	}
	m.cleanups = nil
}

// RunWithMockT runs a test body with a MockT, waits for completion, and
// then runs registered cleanups. This handles runtime.Goexit() calls from
// Fatal/FailNow in both the body and the cleanups.
func RunWithMockT(fn func(m *MockT)) *MockT {
	mt := NewMockT()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer mt.RunCleanups()
		fn(mt)
	}()
	<-done
	return mt
}
