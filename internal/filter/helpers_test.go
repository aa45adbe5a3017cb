package filter

// Test helper functions shared across filter tests.

// rampPlane returns a plane whose value is r*cols+c.
func rampPlane(rows, cols int) *Plane {
	p := NewPlane(rows, cols)
	for i := range p.Pix {
		p.Pix[i] = float32(i % 251)
	}
	return p
}

// constPlane returns a plane filled with v.
func constPlane(rows, cols int, v float32) *Plane {
	p := NewPlane(rows, cols)
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

// mirrorCols returns p flipped left to right.
func mirrorCols(p *Plane) *Plane {
	q := NewPlane(p.Rows, p.Cols)
	for r := 0; r < p.Rows; r++ {
		for c := 0; c < p.Cols; c++ {
			q.Pix[r*q.Cols+p.Cols-1-c] = p.At(r, c)
		}
	}
	return q
}

// absf32 returns the absolute value of a float32.
func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
