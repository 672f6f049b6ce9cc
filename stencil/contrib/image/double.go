package image

// DoubleBuffer holds two same-sized images with alternating roles.
//
// Current is read by a pass and Next is written; Swap flips the roles by
// index. The two images are never aliased and never reallocated, so a pass
// writing Next can never observe its own writes through Current.
type DoubleBuffer[T Float] struct {
	bufs [2]*Image[T]
	cur  int
}

// NewDoubleBuffer creates a double buffer whose two images are both copies
// of src. Seeding both with src keeps pixels a pass does not write (such as
// the border) valid in whichever image ends up current.
func NewDoubleBuffer[T Float](src *Image[T]) *DoubleBuffer[T] {
	return &DoubleBuffer[T]{
		bufs: [2]*Image[T]{src.Clone(), src.Clone()},
	}
}

// Current returns the image holding the latest data.
func (d *DoubleBuffer[T]) Current() *Image[T] {
	return d.bufs[d.cur]
}

// Next returns the image the next pass writes into.
func (d *DoubleBuffer[T]) Next() *Image[T] {
	return d.bufs[1-d.cur]
}

// Swap makes Next the current image.
func (d *DoubleBuffer[T]) Swap() {
	d.cur = 1 - d.cur
}
