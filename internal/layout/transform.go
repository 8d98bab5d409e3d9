package layout

import "golang.org/x/image/math/f64"

// Affine helpers over f64.Aff3 (row-major 2x3: x' = a*x + b*y + c).
// The snapshot's combined transform is built by right-to-left
// composition: the first op in the list is applied to content first.

func aff3Identity() f64.Aff3 {
	return f64.Aff3{1, 0, 0, 0, 1, 0}
}

func aff3Mul(m, n f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

func aff3Translate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

// aff3ScaleAbout scales uniformly around a fixed point.
func aff3ScaleAbout(s, cx, cy float64) f64.Aff3 {
	return f64.Aff3{s, 0, cx - s*cx, 0, s, cy - s*cy}
}

// OpKind tags one step of the ordered transform description.
type OpKind string

const (
	OpScale     OpKind = "scale"
	OpTranslate OpKind = "translate"
	OpTilt      OpKind = "tilt" // 3D perspective step, carried by value only
)

// Op is one step of the combined transform in application order. The 2D
// steps are also collapsed into FrameSnapshot.Transform; the tilt step is
// not affine and stays descriptive.
type Op struct {
	Kind OpKind
	X    float64
	Y    float64
	S    float64
	Deg  float64
}
