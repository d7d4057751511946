package bayesian

import "gonum.org/v1/gonum/mat"

// MatrixPool provides a pool of reusable matrices to reduce allocations
// during the per-iteration GP refits. Matrices are only reused when the
// requested size matches; the trace grows by one row per iteration, so
// same-size requests are the common case within a fit.
type MatrixPool struct {
	symPools   []*mat.SymDense
	densePools []*mat.Dense
	vecPools   []*mat.VecDense
}

// NewMatrixPool creates a new MatrixPool
func NewMatrixPool() *MatrixPool {
	return &MatrixPool{
		symPools:   make([]*mat.SymDense, 0, 10),
		densePools: make([]*mat.Dense, 0, 10),
		vecPools:   make([]*mat.VecDense, 0, 10),
	}
}

// GetSymDense returns an n x n symmetric matrix from the pool or creates a
// new one.
func (p *MatrixPool) GetSymDense(n int) *mat.SymDense {
	for i, m := range p.symPools {
		if m.SymmetricDim() == n {
			p.symPools = append(p.symPools[:i], p.symPools[i+1:]...)
			m.Zero()
			return m
		}
	}
	return mat.NewSymDense(n, nil)
}

// PutSymDense returns a symmetric matrix to the pool
func (p *MatrixPool) PutSymDense(m *mat.SymDense) {
	p.symPools = append(p.symPools, m)
}

// GetDense returns an r x c dense matrix from the pool or creates a new one
func (p *MatrixPool) GetDense(r, c int) *mat.Dense {
	for i, m := range p.densePools {
		mr, mc := m.Dims()
		if mr == r && mc == c {
			p.densePools = append(p.densePools[:i], p.densePools[i+1:]...)
			m.Zero()
			return m
		}
	}
	return mat.NewDense(r, c, nil)
}

// PutDense returns a dense matrix to the pool
func (p *MatrixPool) PutDense(m *mat.Dense) {
	p.densePools = append(p.densePools, m)
}

// GetVecDense returns a length-n vector from the pool or creates a new one
func (p *MatrixPool) GetVecDense(n int) *mat.VecDense {
	for i, v := range p.vecPools {
		if v.Len() == n {
			p.vecPools = append(p.vecPools[:i], p.vecPools[i+1:]...)
			v.Zero()
			return v
		}
	}
	return mat.NewVecDense(n, nil)
}

// PutVecDense returns a vector to the pool
func (p *MatrixPool) PutVecDense(v *mat.VecDense) {
	p.vecPools = append(p.vecPools, v)
}
