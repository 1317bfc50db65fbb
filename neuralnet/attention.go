package neuralnet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Attention is a single-head self-attention block with square projection
// matrices. Nothing in this package trains it; the weights stay as drawn.
type Attention struct {
	QueryWeights *mat.Dense
	KeyWeights   *mat.Dense
	ValueWeights *mat.Dense
}

// AttentionResult holds the output of ComputeAttention. WeightedInputs and
// ContextVectors are the same [n x d] matrix.
type AttentionResult struct {
	Scores         [][]float64
	WeightedInputs [][]float64
	ContextVectors [][]float64
}

// NewAttention draws every projection weight uniformly from [-1, 1].
// inputSize must be positive.
func NewAttention(inputSize int) *Attention {
	return NewAttentionWithLimit(inputSize, 1)
}

// NewAttentionWithLimit draws every projection weight uniformly from
// [-limit, limit]. Pass XavierLimit(inputSize, inputSize) for scaled init.
func NewAttentionWithLimit(inputSize int, limit float64) *Attention {
	if inputSize <= 0 {
		panic(fmt.Sprintf("neuralnet: attention input size must be positive, got %d", inputSize))
	}
	return &Attention{
		QueryWeights: initializeMatrix(inputSize, inputSize, limit),
		KeyWeights:   initializeMatrix(inputSize, inputSize, limit),
		ValueWeights: initializeMatrix(inputSize, inputSize, limit),
	}
}

// XavierLimit is the Glorot uniform bound sqrt(6 / (rows + cols)).
func XavierLimit(rows, cols int) float64 {
	return math.Sqrt(6.0 / float64(rows+cols))
}

func initializeMatrix(rows, cols int, limit float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = uniform(limit)
	}
	return mat.NewDense(rows, cols, data)
}

// ComputeAttention attends every row of inputs [n x d] over all rows:
//
//	scores  = softmax(XWq (XWk)^T / sqrt(d))   [n x n]
//	context = scores · XWv                    [n x d]
func (a *Attention) ComputeAttention(inputs [][]float64) (*AttentionResult, error) {
	x, err := denseFromRows("attention inputs", inputs)
	if err != nil {
		return nil, err
	}
	queries, err := multiply("queries", x, a.QueryWeights)
	if err != nil {
		return nil, err
	}
	keys, err := multiply("keys", x, a.KeyWeights)
	if err != nil {
		return nil, err
	}
	values, err := multiply("values", x, a.ValueWeights)
	if err != nil {
		return nil, err
	}
	raw, err := multiply("scores", queries, keys.T())
	if err != nil {
		return nil, err
	}

	_, d := keys.Dims()
	dK := math.Sqrt(float64(d))
	n, _ := raw.Dims()
	scores := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		row := mat.Row(nil, i, raw)
		for j := range row {
			row[j] /= dK
		}
		scores.SetRow(i, Softmax(row))
	}

	context, err := multiply("context", scores, values)
	if err != nil {
		return nil, err
	}
	contextRows := rowsFromDense(context)
	return &AttentionResult{
		Scores:         rowsFromDense(scores),
		WeightedInputs: contextRows,
		ContextVectors: contextRows,
	}, nil
}

// MatMul multiplies a [n x m] by b [m x p].
func MatMul(a, b [][]float64) ([][]float64, error) {
	da, err := denseFromRows("matmul lhs", a)
	if err != nil {
		return nil, err
	}
	db, err := denseFromRows("matmul rhs", b)
	if err != nil {
		return nil, err
	}
	product, err := multiply("matmul", da, db)
	if err != nil {
		return nil, err
	}
	return rowsFromDense(product), nil
}

func Transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return [][]float64{}
	}
	t := make([][]float64, len(m[0]))
	for j := range t {
		t[j] = make([]float64, len(m))
		for i := range m {
			t[j][i] = m[i][j]
		}
	}
	return t
}

func multiply(op string, a, b mat.Matrix) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		return nil, shapeError(op, ac, br)
	}
	product := mat.NewDense(ar, bc, nil)
	product.Mul(a, b)
	return product, nil
}

func denseFromRows(op string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, shapeError(op+" rows", 1, 0)
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, shapeError(op+" columns", 1, 0)
	}
	data := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		if len(row) != cols {
			return nil, shapeError(op+" columns", cols, len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

func rowsFromDense(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}
