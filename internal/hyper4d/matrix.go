package hyper4d

// Mat4 is a row-major 4×4 matrix acting on column vectors (x, y, z, w).
type Mat4 struct {
	M [4][4]Real
}

// Mul returns A·B, so B is applied first.
func (A Mat4) Mul(B Mat4) Mat4 {
	var out Mat4
	for r, row := range A.M {
		for c := range out.M[r] {
			var s Real
			for k, a := range row {
				s += a * B.M[k][c]
			}
			out.M[r][c] = s
		}
	}
	return out
}

// Transpose is also the inverse of any rotor matrix.
func (A Mat4) Transpose() Mat4 {
	var out Mat4
	for r, row := range A.M {
		for c, v := range row {
			out.M[c][r] = v
		}
	}
	return out
}

func (A Mat4) MulPoint(v Point4) Point4 {
	m := &A.M
	return Point4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// ColumnMajor flattens the matrix the way GPU uniforms expect it.
func (A Mat4) ColumnMajor() [16]float32 {
	var out [16]float32
	for c, col := range A.Transpose().M {
		for r, v := range col {
			out[c*4+r] = float32(v)
		}
	}
	return out
}
