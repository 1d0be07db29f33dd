// Package testkit holds the assertions and seam helpers shared by package tests
package testkit

import (
	"sync"
	"testing"
)

var serial sync.Mutex

// Swap points *target at v until the test ends
// tests swapping package level vars should also call Serial
func Swap[T any](t testing.TB, target *T, v T) {
	t.Helper()
	prev := *target
	*target = v
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process wide lock for the rest of the test
func Serial(t testing.TB) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

// MustPanic fails t unless fn panics
func MustPanic(t testing.TB, fn func()) {
	t.Helper()
	if recovered(fn) == nil {
		t.Fatal("expected panic")
	}
}

// MustNotPanic fails t with the panic value when fn panics
func MustNotPanic(t testing.TB, fn func()) {
	t.Helper()
	if r := recovered(fn); r != nil {
		t.Fatalf("unexpected panic: %v", r)
	}
}

func recovered(fn func()) (r any) {
	defer func() { r = recover() }()
	fn()
	return nil
}
