package geom

import "math"

type RotationOrder int

const (
	RotationOrderXYZ = iota
	RotationOrderYXZ
	RotationOrderZXY
	RotationOrderZYX
)

// EulerAngles holds per-axis rotations in radians.
type EulerAngles struct {
	Vector3
	Order RotationOrder
}

func NewEuler(x, y, z Element, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

// NewEulerFromDegrees converts per-axis degrees, as stored in scene-graph
// documents, into an EulerAngles.
func NewEulerFromDegrees(x, y, z Element, order RotationOrder) *EulerAngles {
	return NewEuler(Radians(x), Radians(y), Radians(z), order)
}

func NewEulerFromQuaternion(q *Quaternion, order RotationOrder) *EulerAngles {
	return NewEulerFromMatrix4(NewRotationMatrix4FromQuaternion(q), order)
}

func NewEulerFromMatrix4(mat *Matrix4, order RotationOrder) *EulerAngles {
	const eps = 0.00000001
	m11, m21, m31 := mat[0], mat[1], mat[2]
	m12, m22, m32 := mat[4], mat[5], mat[6]
	m13, m23, m33 := mat[8], mat[9], mat[10]

	ret := &EulerAngles{Order: order}
	switch order {
	case RotationOrderXYZ:
		ret.Y = math.Asin(math.Max(-1, math.Min(m13, 1)))
		if math.Abs(m13) < 1-eps {
			ret.X = math.Atan2(-m23, m33)
			ret.Z = math.Atan2(-m12, m11)
		} else {
			ret.X = math.Atan2(m32, m22)
			ret.Z = 0
		}
	case RotationOrderYXZ:
		ret.X = math.Asin(-math.Max(-1, math.Min(m23, 1)))
		if math.Abs(m23) < 1-eps {
			ret.Y = math.Atan2(m13, m33)
			ret.Z = math.Atan2(m21, m22)
		} else {
			ret.Y = math.Atan2(-m31, m11)
			ret.Z = 0
		}
	case RotationOrderZXY:
		ret.X = math.Asin(math.Max(-1, math.Min(m32, 1)))
		if math.Abs(m32) < 1-eps {
			ret.Y = math.Atan2(-m31, m33)
			ret.Z = math.Atan2(-m12, m22)
		} else {
			ret.Z = math.Atan2(m21, m11)
			ret.Y = 0
		}
	case RotationOrderZYX:
		ret.Y = math.Asin(-math.Max(-1, math.Min(m31, 1)))
		if math.Abs(m31) < 1-eps {
			ret.X = math.Atan2(m32, m33)
			ret.Z = math.Atan2(m21, m11)
		} else {
			ret.X = 0
			ret.Z = math.Atan2(-m12, m22)
		}
	}
	return ret
}

func (v *EulerAngles) ToQuaternion() *Quaternion {
	cx := math.Cos(v.X / 2)
	cy := math.Cos(v.Y / 2)
	cz := math.Cos(v.Z / 2)
	sx := math.Sin(v.X / 2)
	sy := math.Sin(v.Y / 2)
	sz := math.Sin(v.Z / 2)

	switch v.Order {
	case RotationOrderXYZ:
		return &Vector4{
			X: sx*cy*cz + cx*sy*sz,
			Y: cx*sy*cz - sx*cy*sz,
			Z: cx*cy*sz + sx*sy*cz,
			W: cx*cy*cz - sx*sy*sz}
	case RotationOrderYXZ:
		return &Vector4{
			X: sx*cy*cz + cx*sy*sz,
			Y: cx*sy*cz - sx*cy*sz,
			Z: cx*cy*sz - sx*sy*cz,
			W: cx*cy*cz + sx*sy*sz}
	case RotationOrderZXY:
		return &Vector4{
			X: sx*cy*cz - cx*sy*sz,
			Y: cx*sy*cz + sx*cy*sz,
			Z: cx*cy*sz + sx*sy*cz,
			W: cx*cy*cz - sx*sy*sz}
	case RotationOrderZYX:
		return &Vector4{
			X: sx*cy*cz - cx*sy*sz,
			Y: cx*sy*cz + sx*cy*sz,
			Z: cx*cy*sz - sx*sy*cz,
			W: cx*cy*cz + sx*sy*sz}
	default:
		return &Quaternion{0, 0, 0, 1}
	}
}

// Degrees returns the per-axis angles converted to degrees.
func (v *EulerAngles) Degrees() *Vector3 {
	return &Vector3{X: Degrees(v.X), Y: Degrees(v.Y), Z: Degrees(v.Z)}
}

func Degrees(rad Element) Element {
	return rad * 180 / math.Pi
}

func Radians(deg Element) Element {
	return deg * math.Pi / 180
}
