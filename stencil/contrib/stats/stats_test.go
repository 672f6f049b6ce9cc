package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/ajroetker/go-stencil/stencil"
	"github.com/ajroetker/go-stencil/stencil/contrib/image"
)

func randomImage(width, height int, seed uint64) *image.Image[float32] {
	rng := rand.New(rand.NewPCG(seed, 17))
	img := image.NewImage[float32](width, height)
	for i := range img.Pix() {
		img.Pix()[i] = rng.Float32()
	}
	return img
}

func toFloat64(pix []float32) []float64 {
	out := make([]float64, len(pix))
	for i, v := range pix {
		out[i] = float64(v)
	}
	return out
}

func TestConstantImage(t *testing.T) {
	for _, c := range []float32{0, 0.37, 1, 0.1234567} {
		img := image.NewImage[float32](123, 77)
		img.Fill(c)
		s := Reduce(img, stencil.Scalar)
		if s.Mean != c {
			t.Errorf("constant %v: mean = %v", c, s.Mean)
		}
		if s.Variance != 0 {
			t.Errorf("constant %v: variance = %v, want 0", c, s.Variance)
		}
	}
}

func TestMatchesFloat64Oracle(t *testing.T) {
	img := randomImage(200, 150, 1)
	s := Reduce(img, stencil.Scalar)

	mean, variance := stat.PopMeanVariance(toFloat64(img.Pix()), nil)
	if math.Abs(float64(s.Mean)-mean) > 1e-5 {
		t.Errorf("mean: got %v, want %v", s.Mean, mean)
	}
	if math.Abs(float64(s.Variance)-variance) > 1e-5 {
		t.Errorf("variance: got %v, want %v", s.Variance, variance)
	}
	if math.Abs(float64(s.StdDev())-math.Sqrt(variance)) > 1e-5 {
		t.Errorf("stddev: got %v, want %v", s.StdDev(), math.Sqrt(variance))
	}
}

func TestHandComputed(t *testing.T) {
	img, _ := image.FromSlice(2, 2, []float32{1, 2, 3, 6})
	s := MeanVariance(img)
	// mean 3, deviations -2 -1 0 3, squares sum 14, /4.
	if s.Mean != 3 || s.Variance != 3.5 {
		t.Errorf("got %+v, want {Mean:3 Variance:3.5}", s)
	}
	if r := Reduce(img, nil); r != s {
		t.Errorf("Reduce = %+v, want %+v", r, s)
	}
}

func TestVarianceNonNegative(t *testing.T) {
	for seed := range uint64(20) {
		img := randomImage(17+int(seed), 9, seed)
		if v := Reduce(img, nil).Variance; v < 0 {
			t.Fatalf("seed %d: variance %v < 0", seed, v)
		}
	}
}

func TestDirectAndParallelIdentical(t *testing.T) {
	img := randomImage(513, 389, 42)
	want := MeanVariance(img)

	for _, be := range []stencil.Backend{
		stencil.Scalar,
		stencil.NewPoolBackend(2),
		stencil.NewPoolBackend(7),
		stencil.NewGroupBackend(5),
	} {
		if got := Reduce(img, be); got != want {
			t.Errorf("%s/%d: got %+v, want %+v", be.Name(), be.Workers(), got, want)
		}
		be.Close()
	}
}

func TestEmptyImage(t *testing.T) {
	img := image.NewImage[float32](0, 0)
	if s := Reduce(img, nil); s != (Stats{}) {
		t.Errorf("Reduce(empty) = %+v", s)
	}
	if s := MeanVariance(img); s != (Stats{}) {
		t.Errorf("MeanVariance(empty) = %+v", s)
	}
}

func TestIsFinite(t *testing.T) {
	if !(Stats{Mean: 0.5, Variance: 0.1}).IsFinite() {
		t.Error("finite stats reported non-finite")
	}
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	if (Stats{Mean: nan}).IsFinite() || (Stats{Variance: inf}).IsFinite() {
		t.Error("non-finite stats reported finite")
	}
}

func TestString(t *testing.T) {
	got := Stats{Mean: 0.5, Variance: 0.25}.String()
	if want := "Mean = 0.500000,  Variance = 0.250000"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func BenchmarkReduce(b *testing.B) {
	img := randomImage(1024, 1024, 1)
	for _, be := range []stencil.Backend{stencil.Scalar, stencil.NewPoolBackend(0)} {
		b.Run(be.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = Reduce(img, be)
			}
		})
		be.Close()
	}
}
