package kalman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Filter is an information-form Kalman filter over Model.
type Filter struct {
	a     *mat.Dense
	at    mat.Matrix
	ct    mat.Matrix
	bbt   *mat.Dense
	ctc   *mat.Dense
	drift *mat.VecDense

	s     *mat.VecDense
	cov   *mat.Dense
	steps int
}

// NewFilter starts a filter at state s0 with covariance sigma0*I.
func NewFilter(m Model, s0 []float64, sigma0 float64) (*Filter, error) {
	if len(s0) != StateDim {
		return nil, dimError("initial state", len(s0), StateDim)
	}
	if sigma0 <= 0 {
		return nil, fmt.Errorf("kalman: sigma0 %v must be positive", sigma0)
	}

	a := m.Transition()
	b := m.Noise()
	c := m.Measurement()

	var bbt, ctc mat.Dense
	bbt.Mul(b, b.T())
	ctc.Mul(c.T(), c)

	cov := mat.NewDense(StateDim, StateDim, nil)
	for i := range StateDim {
		cov.Set(i, i, sigma0)
	}

	return &Filter{
		a:     a,
		at:    a.T(),
		ct:    c.T(),
		bbt:   &bbt,
		ctc:   &ctc,
		drift: m.Drift(),
		s:     mat.NewVecDense(StateDim, append([]float64(nil), s0...)),
		cov:   cov,
	}, nil
}

// Step predicts one time step and corrects it with measurement meas.
// On error the filter state is unchanged.
func (f *Filter) Step(meas []float64) error {
	if len(meas) != MeasDim {
		return dimError("measurement", len(meas), MeasDim)
	}

	// Prediction.
	var pred mat.VecDense
	pred.MulVec(f.a, f.s)
	pred.AddVec(&pred, f.drift)

	var p, info mat.Dense
	p.Product(f.a, f.cov, f.at)
	p.Add(&p, f.bbt)
	if err := info.Inverse(&p); err != nil {
		return fmt.Errorf("%w: predicted covariance: %v", ErrSingular, err)
	}

	// Correction.
	var post, cov mat.Dense
	post.Add(&info, f.ctc)
	if err := cov.Inverse(&post); err != nil {
		return fmt.Errorf("%w: posterior information: %v", ErrSingular, err)
	}

	var rhs, cm, s mat.VecDense
	rhs.MulVec(&info, &pred)
	cm.MulVec(f.ct, mat.NewVecDense(MeasDim, append([]float64(nil), meas...)))
	rhs.AddVec(&rhs, &cm)
	s.MulVec(&cov, &rhs)

	f.s = &s
	f.cov = &cov
	f.steps++
	return nil
}

// State returns the current state estimate.
func (f *Filter) State() mat.Vector { return f.s }

// Cov returns the current covariance.
func (f *Filter) Cov() mat.Matrix { return f.cov }

// Steps returns the number of successful Step calls.
func (f *Filter) Steps() int { return f.steps }

// Track filters a 3 x K measurement matrix. The result is 6 x K: column 0
// is s0 and column k is corrected with measurement column k.
func Track(m Model, s0 []float64, sigma0 float64, meas mat.Matrix) (*mat.Dense, error) {
	r, steps := meas.Dims()
	if r != MeasDim {
		return nil, dimError("measurement rows", r, MeasDim)
	}
	if steps == 0 {
		return nil, dimError("measurement columns", steps, 1)
	}
	f, err := NewFilter(m, s0, sigma0)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(StateDim, steps, nil)
	out.SetCol(0, s0)
	col := make([]float64, MeasDim)
	for k := 1; k < steps; k++ {
		mat.Col(col, k, meas)
		if err := f.Step(col); err != nil {
			return nil, fmt.Errorf("step %d: %w", k, err)
		}
		out.SetCol(k, f.s.RawVector().Data)
	}
	return out, nil
}
