package bezier

const (
	// The number of uniform subdivision levels the batched strategy
	// replaces.
	batchLevels = 3

	// BatchWidth is the number of linear segments the batched strategy
	// flattens a curve into.
	BatchWidth = 1 << batchLevels
)

// Bernstein weights for evaluating a cubic at BatchWidth parameters: row j
// holds the weight of control point j for every sample.
type Basis [4][BatchWidth]float32

var (
	// Samples at i/BatchWidth; the start point of segment i.
	startBasis Basis

	// Samples at (i+1)/BatchWidth; the end point of segment i.
	endBasis Basis
)

// Build the basis sampling the cubic at (i+offset)/BatchWidth.
func NewBasis(offset int) Basis {
	var b Basis
	for i := 0; i < BatchWidth; i++ {
		t := float32(i+offset) / BatchWidth
		s := 1 - t
		b[0][i] = s * s * s
		b[1][i] = 3 * t * s * s
		b[2][i] = 3 * t * t * s
		b[3][i] = t * t * t
	}
	return b
}

func init() {
	startBasis = NewBasis(0)
	endBasis = NewBasis(1)
}
