package stencil

import (
	"math/rand/v2"
	"testing"
)

// withWidth runs fn with the register width temporarily set to bytes.
func withWidth(t *testing.T, bytes int, fn func()) {
	t.Helper()
	saved := currentWidth
	currentWidth = bytes
	defer func() { currentWidth = saved }()
	fn()
}

func TestCurrentWidth(t *testing.T) {
	switch CurrentWidth() {
	case 16, 32, 64:
	default:
		t.Fatalf("CurrentWidth() = %d, want 16, 32 or 64", CurrentWidth())
	}
	if got, want := MaxLanes[float32](), CurrentWidth()/4; got != want {
		t.Errorf("MaxLanes[float32]() = %d, want %d", got, want)
	}
}

func TestMaxLanes(t *testing.T) {
	for _, w := range []int{16, 32, 64} {
		withWidth(t, w, func() {
			if got := MaxLanes[float32](); got != w/4 {
				t.Errorf("width %d: MaxLanes[float32]() = %d, want %d", w, got, w/4)
			}
			if got := MaxLanes[float64](); got != w/8 {
				t.Errorf("width %d: MaxLanes[float64]() = %d, want %d", w, got, w/8)
			}
			if got := Set[float32](1).NumLanes(); got != w/4 {
				t.Errorf("width %d: Set NumLanes = %d, want %d", w, got, w/4)
			}
		})
	}
}

func TestLoadStore(t *testing.T) {
	src := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}
	lanes := MaxLanes[float32]()

	v := Load(src)
	if v.NumLanes() != lanes {
		t.Fatalf("NumLanes = %d, want %d", v.NumLanes(), lanes)
	}
	dst := make([]float32, len(src))
	Store(v, dst)
	for i := range dst {
		want := float32(0)
		if i < lanes {
			want = src[i]
		}
		if dst[i] != want {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}

	// A short source loads fewer lanes; a short destination stores fewer.
	short := Load(src[:2])
	if short.NumLanes() != 2 {
		t.Errorf("short NumLanes = %d, want 2", short.NumLanes())
	}
	one := make([]float32, 1)
	Store(v, one)
	if one[0] != 1 {
		t.Errorf("one[0] = %v, want 1", one[0])
	}
}

func TestAddMul(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	b := []float64{0.5, -1, 2, 0, 3, 1, -2, 10}
	lanes := MaxLanes[float64]()

	sum := make([]float64, lanes)
	prod := make([]float64, lanes)
	Store(Add(Load(a), Load(b)), sum)
	Store(Mul(Load(a), Load(b)), prod)
	for i := range lanes {
		if sum[i] != a[i]+b[i] {
			t.Errorf("Add lane %d: got %v, want %v", i, sum[i], a[i]+b[i])
		}
		if prod[i] != a[i]*b[i] {
			t.Errorf("Mul lane %d: got %v, want %v", i, prod[i], a[i]*b[i])
		}
	}

	if n := Add(Load(a[:1]), Set(2.0)).NumLanes(); n != 1 {
		t.Errorf("Add of 1 and %d lanes has %d lanes, want 1", lanes, n)
	}
}

func TestMulAddMatchesRoundedScalar(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	lanes := MaxLanes[float32]()
	a, b, c := make([]float32, lanes), make([]float32, lanes), make([]float32, lanes)
	for range 100 {
		for i := range lanes {
			a[i], b[i], c[i] = rng.Float32(), rng.Float32(), rng.Float32()
		}
		got := make([]float32, lanes)
		Store(Add(Load(c), Mul(Load(a), Load(b))), got)
		for i := range lanes {
			if want := c[i] + float32(a[i]*b[i]); got[i] != want {
				t.Fatalf("lane %d: got %v, want %v", i, got[i], want)
			}
		}
	}
}

func TestProcessWithTail(t *testing.T) {
	for _, w := range []int{16, 32, 64} {
		withWidth(t, w, func() {
			lanes := MaxLanes[float32]()
			for _, size := range []int{0, 1, lanes - 1, lanes, lanes + 1, 3*lanes + 2} {
				hits := make([]int, size)
				var full, tails int
				ProcessWithTail[float32](size,
					func(off int) {
						full++
						for i := off; i < off+lanes; i++ {
							hits[i]++
						}
					},
					func(off, count int) {
						tails++
						if count <= 0 || count >= lanes {
							t.Errorf("size %d: tail count %d out of (0, %d)", size, count, lanes)
						}
						for i := off; i < off+count; i++ {
							hits[i]++
						}
					},
				)
				if full != size/lanes {
					t.Errorf("width %d size %d: %d full chunks, want %d", w, size, full, size/lanes)
				}
				if wantTails := min(size%lanes, 1); tails != wantTails {
					t.Errorf("width %d size %d: %d tails, want %d", w, size, tails, wantTails)
				}
				for i, h := range hits {
					if h != 1 {
						t.Fatalf("width %d size %d: index %d visited %d times", w, size, i, h)
					}
				}
			}
		})
	}
}

func TestNoSimdEnv(t *testing.T) {
	t.Setenv("STENCIL_NO_SIMD", "")
	if NoSimdEnv() {
		t.Error("NoSimdEnv() = true with STENCIL_NO_SIMD unset")
	}
	t.Setenv("STENCIL_NO_SIMD", "1")
	if !NoSimdEnv() {
		t.Error("NoSimdEnv() = false with STENCIL_NO_SIMD=1")
	}
}

func BenchmarkMulAdd(b *testing.B) {
	x := make([]float32, 1024)
	y := make([]float32, 1024)
	k := Set[float32](0.5)
	for i := 0; i < b.N; i++ {
		ProcessWithTail[float32](len(x),
			func(off int) {
				Store(Add(Load(y[off:]), Mul(k, Load(x[off:]))), y[off:])
			},
			func(off, count int) {
				for j := off; j < off+count; j++ {
					y[j] += float32(0.5 * x[j])
				}
			},
		)
	}
}
