package lines

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// quatEpsilon is the squared-length tolerance below which a rotation is
// treated as degenerate and replaced by the identity.
const quatEpsilon = 1e-12

// Transform is a translation, rotation and non-uniform scale.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns the transform whose matrix is the identity.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns translate(T) * rotate(R) * scale(S) in column-major order.
func (t Transform) Matrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	sc := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return tr.Mul4(normalizeQuat(t.Rotation).Mat4()).Mul4(sc)
}

// normalizeQuat returns q scaled to unit length, or the identity when q
// is zero or not finite.
func normalizeQuat(q mgl32.Quat) mgl32.Quat {
	sq := q.W*q.W + q.V.Dot(q.V)
	if sq < quatEpsilon || math32.IsNaN(sq) || math32.IsInf(sq, 0) {
		return mgl32.QuatIdent()
	}
	if math32.Abs(sq-1) < 1e-6 {
		return q
	}
	inv := 1 / math32.Sqrt(sq)
	return mgl32.Quat{W: q.W * inv, V: q.V.Mul(inv)}
}
