package stencil

import (
	"errors"
	"sync/atomic"
	"testing"
)

func backends(t *testing.T) []Backend {
	t.Helper()
	list := []Backend{Scalar, NewPoolBackend(4), NewGroupBackend(3)}
	t.Cleanup(func() {
		for _, be := range list {
			be.Close()
		}
	})
	return list
}

func TestBackendParallelFor(t *testing.T) {
	for _, be := range backends(t) {
		for _, n := range []int{1, 2, 5, 64, 999} {
			hits := make([]int32, n)
			be.ParallelFor(n, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("%s n=%d: index %d visited %d times", be.Name(), n, i, h)
				}
			}
		}
	}
}

func TestBackendParallelForEach(t *testing.T) {
	for _, be := range backends(t) {
		n := 333
		var sum atomic.Int64
		be.ParallelForEach(n, func(i int) {
			sum.Add(int64(i))
		})
		if want := int64(n * (n - 1) / 2); sum.Load() != want {
			t.Errorf("%s: sum = %d, want %d", be.Name(), sum.Load(), want)
		}
	}
}

func TestBackendZeroN(t *testing.T) {
	for _, be := range backends(t) {
		called := false
		be.ParallelFor(0, func(start, end int) { called = true })
		be.ParallelForEach(0, func(i int) { called = true })
		if called {
			t.Errorf("%s: callback invoked for n=0", be.Name())
		}
	}
}

func TestBackendNames(t *testing.T) {
	tests := []struct {
		be   Backend
		name string
	}{
		{Scalar, "scalar"},
		{NewPoolBackend(2), "pool"},
		{NewGroupBackend(2), "group"},
	}
	for _, tt := range tests {
		if got := tt.be.Name(); got != tt.name {
			t.Errorf("Name() = %q, want %q", got, tt.name)
		}
		if err := tt.be.Close(); err != nil {
			t.Errorf("%s: Close() = %v", tt.name, err)
		}
	}
	if Scalar.Workers() != 1 {
		t.Errorf("Scalar.Workers() = %d, want 1", Scalar.Workers())
	}
}

func TestPoolBackendAfterClose(t *testing.T) {
	be := NewPoolBackend(4)
	be.Close()
	be.Close()

	var count atomic.Int32
	be.ParallelFor(10, func(start, end int) { count.Add(int32(end - start)) })
	if count.Load() != 10 {
		t.Errorf("count = %d, want 10", count.Load())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"scalar", LevelScalar},
		{"Serial", LevelScalar},
		{"pool", LevelPool},
		{" group ", LevelGroup},
		{"errgroup", LevelGroup},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("gpu"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("ParseLevel(gpu) error = %v, want ErrUnknownLevel", err)
	}
}

func TestNewBackend(t *testing.T) {
	for _, level := range []Level{LevelScalar, LevelPool, LevelGroup} {
		be, err := NewBackend(level, 2)
		if err != nil {
			t.Fatalf("NewBackend(%v): %v", level, err)
		}
		if be.Name() != level.String() {
			t.Errorf("NewBackend(%v).Name() = %q", level, be.Name())
		}
		be.Close()
	}
	if _, err := NewBackend(Level(42), 0); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("NewBackend(42) error = %v, want ErrUnknownLevel", err)
	}
	if Level(42).String() != "unknown" {
		t.Errorf("Level(42).String() = %q, want unknown", Level(42).String())
	}
}

func TestNoParallelEnv(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
		{"yes", true},
	}
	for _, tt := range tests {
		t.Setenv("STENCIL_NO_PARALLEL", tt.val)
		if got := NoParallelEnv(); got != tt.want {
			t.Errorf("STENCIL_NO_PARALLEL=%q: got %v, want %v", tt.val, got, tt.want)
		}
	}

	t.Setenv("STENCIL_NO_PARALLEL", "1")
	if defaultLevel() != LevelScalar {
		t.Errorf("defaultLevel() = %v with STENCIL_NO_PARALLEL set, want scalar", defaultLevel())
	}
}

func TestCurrentName(t *testing.T) {
	if CurrentName() == "" {
		t.Error("CurrentName() is empty")
	}
	be := Default()
	defer be.Close()
	if be.Name() != CurrentLevel().String() {
		t.Errorf("Default().Name() = %q, want %q", be.Name(), CurrentLevel().String())
	}
}

func BenchmarkBackends(b *testing.B) {
	data := make([]float32, 1<<16)
	for _, be := range []Backend{Scalar, NewPoolBackend(0), NewGroupBackend(0)} {
		b.Run(be.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				be.ParallelFor(len(data), func(start, end int) {
					for j := start; j < end; j++ {
						data[j] = data[j]*0.5 + 1
					}
				})
			}
		})
		be.Close()
	}
}
