package domain

// Vec3 is a location or scale triple.
type Vec3 [3]float64

// Quat is a rotation quaternion in W, X, Y, Z order.
type Quat [4]float64

// RotationMode is the rotation representation an object uses.
type RotationMode string

const (
	// RotationQuaternion stores rotation as a quaternion.
	RotationQuaternion RotationMode = "QUATERNION"
	// RotationEulerXYZ stores rotation as XYZ euler angles.
	RotationEulerXYZ RotationMode = "XYZ"
)

// Transform is the placement of an object in its parent space.
type Transform struct {
	Location Vec3 `yaml:"location"`
	Rotation Quat `yaml:"rotation"`
	Scale    Vec3 `yaml:"scale"`
}

// IdentityQuat is the rotation that does nothing.
var IdentityQuat = Quat{1, 0, 0, 0}

// IdentityTransform returns the transform with zero location, identity rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: IdentityQuat,
		Scale:    Vec3{1, 1, 1},
	}
}

// Normalized replaces an all-zero rotation or scale with identity values.
// Hosts report zero quaternions for objects that never used quaternion mode.
func (t Transform) Normalized() Transform {
	if t.Rotation == (Quat{}) {
		t.Rotation = IdentityQuat
	}
	if t.Scale == (Vec3{}) {
		t.Scale = Vec3{1, 1, 1}
	}
	return t
}
