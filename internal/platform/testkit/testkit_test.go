package testkit

import (
	"sync/atomic"
	"testing"
)

var pageMax = 100

type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper()               {}
func (r *recorder) Fatal(...any)          { r.failed = true }
func (r *recorder) Fatalf(string, ...any) { r.failed = true }

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Serial(t)
		Swap(t, &pageMax, 5)
		if pageMax != 5 {
			t.Fatalf("pageMax = %d", pageMax)
		}
	})
	if pageMax != 100 {
		t.Fatalf("pageMax not restored: %d", pageMax)
	}
}

func TestSerial_Excludes(t *testing.T) {
	var inside, overlap atomic.Int32
	for range 8 {
		t.Run("worker", func(t *testing.T) {
			t.Parallel()
			Serial(t)
			if inside.Add(1) > 1 {
				overlap.Add(1)
			}
			inside.Add(-1)
		})
	}
	t.Cleanup(func() {
		if overlap.Load() != 0 {
			t.Errorf("serial sections overlapped %d times", overlap.Load())
		}
	})
}

func TestMustPanic(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	MustPanic(r, func() { panic("boom") })
	if r.failed {
		t.Fatal("panicking fn reported as failure")
	}
	MustPanic(r, func() {})
	if !r.failed {
		t.Fatal("quiet fn should fail MustPanic")
	}
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	MustNotPanic(r, func() {})
	if r.failed {
		t.Fatal("quiet fn reported as failure")
	}
	MustNotPanic(r, func() { panic("boom") })
	if !r.failed {
		t.Fatal("panicking fn should fail MustNotPanic")
	}
}
