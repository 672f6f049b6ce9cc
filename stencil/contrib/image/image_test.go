package image

import (
	"errors"
	"testing"
)

func TestNewImage(t *testing.T) {
	img := NewImage[float32](100, 50)

	if img.Width() != 100 {
		t.Errorf("Width: got %d, want 100", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Height: got %d, want 50", img.Height())
	}
	if img.Len() != 5000 {
		t.Errorf("Len: got %d, want 5000", img.Len())
	}
}

func TestNewImage_ZeroDimensions(t *testing.T) {
	img := NewImage[float32](0, 0)
	if img.Width() != 0 || img.Height() != 0 {
		t.Errorf("Zero dimensions: got %dx%d, want 0x0", img.Width(), img.Height())
	}

	img = NewImage[float32](-1, 10)
	if img.Width() != 0 || img.Height() != 0 {
		t.Errorf("Negative width: got %dx%d, want 0x0", img.Width(), img.Height())
	}
	if img.Row(0) != nil {
		t.Error("Row(0) of empty image should be nil")
	}
}

func TestFromSlice(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	img, err := FromSlice(3, 2, data)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if got := img.At(2, 1); got != 6 {
		t.Errorf("At(2,1): got %v, want 6", got)
	}

	// No copy: writes are visible through the original slice.
	img.Set(0, 0, 42)
	if data[0] != 42 {
		t.Errorf("data[0]: got %v, want 42", data[0])
	}

	if _, err := FromSlice(4, 2, data); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("FromSlice(4,2): err = %v, want ErrInvalidSize", err)
	}
	if _, err := FromSlice(0, 2, data); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("FromSlice(0,2): err = %v, want ErrInvalidSize", err)
	}
}

func TestImage_Row(t *testing.T) {
	img := NewImage[float32](10, 5)

	row0 := img.Row(0)
	for i := range 10 {
		row0[i] = float32(i)
	}
	if len(row0) != 10 {
		t.Errorf("Row length: got %d, want 10", len(row0))
	}

	row1 := img.Row(1)
	row1[0] = 999
	if row0[0] == 999 {
		t.Error("Rows should be independent")
	}
	if img.Pix()[10] != 999 {
		t.Errorf("Pix()[10]: got %v, want 999 (row-major layout)", img.Pix()[10])
	}

	if img.Row(-1) != nil {
		t.Error("Row(-1) should return nil")
	}
	if img.Row(5) != nil {
		t.Error("Row(5) should return nil")
	}
}

func TestImage_AtSet(t *testing.T) {
	img := NewImage[float64](10, 10)

	img.Set(5, 3, 42.0)
	if got := img.At(5, 3); got != 42.0 {
		t.Errorf("At(5,3): got %v, want 42.0", got)
	}

	if got := img.At(-1, 0); got != 0 {
		t.Errorf("At(-1,0): got %v, want 0", got)
	}
	if got := img.At(10, 0); got != 0 {
		t.Errorf("At(10,0): got %v, want 0", got)
	}

	// Out of bounds set is ignored.
	img.Set(-1, 0, 999)
	img.Set(0, 10, 999)
	for _, v := range img.Pix() {
		if v == 999 {
			t.Fatal("out of bounds Set modified the image")
		}
	}
}

func TestImage_Clone(t *testing.T) {
	img := NewImage[float32](5, 5)
	img.Fill(0.25)

	clone := img.Clone()
	clone.Set(2, 2, 1)
	if img.At(2, 2) != 0.25 {
		t.Error("Clone should not share pixels with the original")
	}

	empty := NewImage[float32](0, 0).Clone()
	if empty.Len() != 0 {
		t.Errorf("Clone of empty image has %d pixels", empty.Len())
	}
}

func TestRect(t *testing.T) {
	img := NewImage[float32](8, 6)

	b := img.Bounds()
	if b.Width() != 8 || b.Height() != 6 {
		t.Errorf("Bounds: got %dx%d, want 8x6", b.Width(), b.Height())
	}

	in := img.Interior()
	if in != (Rect{X0: 1, Y0: 1, X1: 7, Y1: 5}) {
		t.Errorf("Interior: got %+v", in)
	}

	got := b.Intersect(Rect{X0: 4, Y0: -2, X1: 20, Y1: 3})
	if got != (Rect{X0: 4, Y0: 0, X1: 8, Y1: 3}) {
		t.Errorf("Intersect: got %+v", got)
	}

	if !(Rect{X0: 1, Y0: 1, X1: 1, Y1: 5}).IsEmpty() {
		t.Error("zero-width rect should be empty")
	}
	if NewImage[float32](2, 2).Interior().IsEmpty() != true {
		t.Error("2x2 image has no interior")
	}
}

func TestClampImage(t *testing.T) {
	img, _ := FromSlice(4, 1, []float32{-0.5, 0.25, 1.5, 1})
	out := NewImage[float32](4, 1)

	if err := ClampImage(img, out, 0, 1); err != nil {
		t.Fatalf("ClampImage: %v", err)
	}
	want := []float32{0, 0.25, 1, 1}
	for i, w := range want {
		if out.Pix()[i] != w {
			t.Errorf("out[%d]: got %v, want %v", i, out.Pix()[i], w)
		}
	}

	if err := ClampImage(img, NewImage[float32](2, 2), 0, 1); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("ClampImage size mismatch: err = %v", err)
	}
}

func TestMinMax(t *testing.T) {
	img, _ := FromSlice(3, 1, []float64{0.5, -2, 7})
	lo, hi, err := MinMax(img)
	if err != nil {
		t.Fatalf("MinMax: %v", err)
	}
	if lo != -2 || hi != 7 {
		t.Errorf("MinMax: got (%v, %v), want (-2, 7)", lo, hi)
	}

	if _, _, err := MinMax(NewImage[float64](0, 0)); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("MinMax(empty): err = %v, want ErrEmptyImage", err)
	}
}

func TestDoubleBuffer(t *testing.T) {
	src := NewImage[float32](4, 4)
	src.Fill(0.5)
	db := NewDoubleBuffer(src)

	cur, next := db.Current(), db.Next()
	if cur == next {
		t.Fatal("Current and Next must be distinct images")
	}
	if cur == src || next == src {
		t.Fatal("DoubleBuffer must own its images")
	}
	if cur.At(3, 3) != 0.5 || next.At(3, 3) != 0.5 {
		t.Error("both images should be seeded from src")
	}

	next.Set(1, 1, 1)
	db.Swap()
	if db.Current() != next {
		t.Error("after Swap, Next becomes Current")
	}
	if db.Next() != cur {
		t.Error("after Swap, Current becomes Next")
	}
	if db.Current().At(1, 1) != 1 {
		t.Error("Current should hold the pixels written to Next")
	}

	db.Swap()
	if db.Current() != cur || db.Next() != next {
		t.Error("two swaps should restore the original roles")
	}
}
