// Package predict implements features.Predictor with regularised linear models:
// ridge regression for each team's goals and logistic regression for the
// team 1 win and draw outcomes.
package predict

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-fives-metrics/internal/features"
	"github.com/pable/go-fives-metrics/internal/model"
)

var (
	ErrEmptyTrainingSet = errors.New("empty training set")
	ErrNotFitted        = errors.New("model not fitted")
)

// Options holds the model hyper-parameters.
type Options struct {
	RidgeLambda   float64 // L2 penalty for the goal regressors (> 0)
	L2            float64 // L2 penalty for the classifiers (>= 0)
	MaxIterations int     // L-BFGS major iteration cap
	DrawThreshold float64 // DrawProb at or above this predicts a draw
}

// DefaultOptions returns the default hyper-parameters.
func DefaultOptions() Options {
	return Options{
		RidgeLambda:   1.0,
		L2:            0.01,
		MaxIterations: 200,
		DrawThreshold: 0.5,
	}
}

// Validate rejects options the solvers cannot work with.
func (o Options) Validate() error {
	if o.RidgeLambda <= 0 {
		return fmt.Errorf("ridge_lambda must be positive, got %g", o.RidgeLambda)
	}
	if o.L2 < 0 {
		return fmt.Errorf("l2 must not be negative, got %g", o.L2)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", o.MaxIterations)
	}
	if o.DrawThreshold <= 0 || o.DrawThreshold > 1 {
		return fmt.Errorf("draw_threshold must be in (0, 1], got %g", o.DrawThreshold)
	}
	return nil
}

// Model is the default Predictor. Each Fit replaces the previous fit.
type Model struct {
	opts    Options
	columns []string
	scale   scaler

	team1Goals []float64
	team2Goals []float64
	win        []float64
	draw       []float64
}

var _ features.Predictor = (*Model)(nil)

// New returns an unfitted model.
func New(opts Options) *Model {
	return &Model{opts: opts}
}

// Fit trains all four sub-models on the featured training set.
func (m *Model) Fit(train features.Dataset) error {
	if err := m.opts.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if train.Len() == 0 {
		return ErrEmptyTrainingSet
	}

	raw := train.Matrix()
	scale := fitScaler(raw, len(train.Columns))
	x := make([][]float64, len(raw))
	for i, row := range raw {
		x[i] = scale.design(row)
	}

	n := train.Len()
	y1 := make([]float64, n)
	y2 := make([]float64, n)
	yWin := make([]float64, n)
	yDraw := make([]float64, n)
	for i := range train.Rows {
		r := &train.Rows[i]
		y1[i] = float64(r.Team1Goals)
		y2[i] = float64(r.Team2Goals)
		if r.Team1Result == 1 {
			yWin[i] = 1
		}
		if r.Team1Goals == r.Team2Goals {
			yDraw[i] = 1
		}
	}

	// The model only changes once every sub-model has fitted.
	t1, err := fitRidge(x, y1, m.opts.RidgeLambda)
	if err != nil {
		return fmt.Errorf("fit team 1 goals: %w", err)
	}
	t2, err := fitRidge(x, y2, m.opts.RidgeLambda)
	if err != nil {
		return fmt.Errorf("fit team 2 goals: %w", err)
	}
	win, err := fitLogistic(x, yWin, m.opts)
	if err != nil {
		return fmt.Errorf("fit win classifier: %w", err)
	}
	draw, err := fitLogistic(x, yDraw, m.opts)
	if err != nil {
		return fmt.Errorf("fit draw classifier: %w", err)
	}
	m.team1Goals, m.team2Goals, m.win, m.draw = t1, t2, win, draw
	m.columns = append([]string(nil), train.Columns...)
	m.scale = scale
	return nil
}

// Predict returns one prediction per row of ds. ds must carry the columns the
// model was fitted on.
func (m *Model) Predict(ds features.Dataset) ([]model.Prediction, error) {
	if m.columns == nil {
		return nil, ErrNotFitted
	}
	if err := features.CheckParity(features.Dataset{Columns: m.columns}, ds); err != nil {
		return nil, err
	}

	out := make([]model.Prediction, ds.Len())
	for i := range ds.Rows {
		x := m.scale.design(ds.Rows[i].Vector())
		pWin := sigmoid(floats.Dot(m.win, x))
		pDraw := sigmoid(floats.Dot(m.draw, x))
		out[i] = model.Prediction{
			MatchID:      ds.Rows[i].ID,
			Team1Goals:   math.Max(0, floats.Dot(m.team1Goals, x)),
			Team2Goals:   math.Max(0, floats.Dot(m.team2Goals, x)),
			Team1Win:     pWin >= 0.5,
			Team1WinProb: pWin,
			Team2WinProb: 1 - pWin,
			Draw:         pDraw >= m.opts.DrawThreshold,
			DrawProb:     pDraw,
		}
	}
	return out, nil
}

// ---- Standardisation ----

type scaler struct {
	mean, std []float64
}

func fitScaler(rows [][]float64, cols int) scaler {
	s := scaler{mean: make([]float64, cols), std: make([]float64, cols)}
	col := make([]float64, len(rows))
	for j := 0; j < cols; j++ {
		for i, r := range rows {
			col[i] = r[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1 // constant column or single row
		}
		s.mean[j], s.std[j] = mean, std
	}
	return s
}

// design returns [1, standardised features...].
func (s scaler) design(row []float64) []float64 {
	out := make([]float64, len(row)+1)
	out[0] = 1
	for j, v := range row {
		out[j+1] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

// ---- Ridge regression ----

// fitRidge solves (XᵀX + λI)w = Xᵀy. The intercept (column 0) is not penalised.
func fitRidge(x [][]float64, y []float64, lambda float64) ([]float64, error) {
	n, p := len(x), len(x[0])
	xm := mat.NewDense(n, p, nil)
	for i, row := range x {
		xm.SetRow(i, row)
	}

	var a mat.Dense
	a.Mul(xm.T(), xm)
	for j := 1; j < p; j++ {
		a.Set(j, j, a.At(j, j)+lambda)
	}
	var b mat.VecDense
	b.MulVec(xm.T(), mat.NewVecDense(n, y))

	var w mat.VecDense
	if err := w.SolveVec(&a, &b); err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}
	return mat.Col(nil, 0, &w), nil
}

// ---- Logistic regression ----

// fitLogistic minimises mean log-loss plus an L2 penalty on the non-intercept
// weights with L-BFGS. A single-class label falls back to a constant model at
// the smoothed empirical rate.
func fitLogistic(x [][]float64, y []float64, opts Options) ([]float64, error) {
	n, p := float64(len(x)), len(x[0])
	rate := (floats.Sum(y) + 0.5) / (n + 1)

	w0 := make([]float64, p)
	w0[0] = logit(rate)
	if allEqual(y) {
		return w0, nil
	}

	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			var loss float64
			for i, xi := range x {
				loss += logLoss(floats.Dot(w, xi), y[i])
			}
			loss /= n
			for j := 1; j < len(w); j++ {
				loss += 0.5 * opts.L2 * w[j] * w[j]
			}
			return loss
		},
		Grad: func(grad, w []float64) {
			for j := range grad {
				grad[j] = 0
			}
			for i, xi := range x {
				e := sigmoid(floats.Dot(w, xi)) - y[i]
				floats.AddScaled(grad, e/n, xi)
			}
			for j := 1; j < len(w); j++ {
				grad[j] += opts.L2 * w[j]
			}
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   opts.MaxIterations,
		GradientThreshold: 1e-8,
	}

	result, err := optimize.Minimize(problem, w0, settings, &optimize.LBFGS{})
	if err != nil {
		// A line-search failure near the optimum still leaves a usable point.
		if result == nil || !allFinite(result.X) {
			return nil, fmt.Errorf("minimize log-loss: %w", err)
		}
	}
	return result.X, nil
}

// logLoss is log(1+e^z) - y·z, computed without overflow.
func logLoss(z, y float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z))) - y*z
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func allEqual(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
