package image

// ClampImage clamps pixel values of img to [minVal, maxVal] into out.
// img and out may be the same image. NaN pixels become minVal.
func ClampImage[T Float](img, out *Image[T], minVal, maxVal T) error {
	if !SameSize(img, out) {
		return ErrSizeMismatch
	}
	dst := out.data
	for i, v := range img.data {
		switch {
		case v >= maxVal:
			dst[i] = maxVal
		case v >= minVal:
			dst[i] = v
		default:
			dst[i] = minVal
		}
	}
	return nil
}

// MinMax returns the smallest and largest pixel values.
func MinMax[T Float](img *Image[T]) (lo, hi T, err error) {
	if len(img.data) == 0 {
		return 0, 0, ErrEmptyImage
	}
	lo, hi = img.data[0], img.data[0]
	for _, v := range img.data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, nil
}
