// Package scene models a source authoring tool's object hierarchy and builds
// scene-graph trees from it. The objects mirror what a DCC bridge hands over:
// local (parent-relative) poses in one of several rotation modes, an optional
// mesh data block and an ordered list of material slots.
package scene

import "github.com/nybane/sgrconv/geom"

type RotationMode int

const (
	RotationModeEulerXYZ RotationMode = iota
	RotationModeQuaternion
	RotationModeAxisAngle
)

// MeshHandle identifies a mesh data block in the source tool.
type MeshHandle interface {
	MeshName() string
}

// MaterialHandle identifies a material in the source tool.
type MaterialHandle interface {
	MaterialName() string
}

// Object is one node of the source hierarchy. The pose is local, relative to
// the object's parent. A nil entry in MaterialSlots is an unassigned slot.
type Object struct {
	Name string

	Translation geom.Vector3
	Scale       geom.Vector3

	RotationMode RotationMode
	EulerDegrees geom.Vector3 // RotationModeEulerXYZ
	Quaternion   geom.Vector4 // RotationModeQuaternion
	Axis         geom.Vector3 // RotationModeAxisAngle
	Angle        geom.Element // RotationModeAxisAngle, radians

	Mesh          MeshHandle
	MaterialSlots []MaterialHandle

	Children []*Object
}

func NewObject(name string) *Object {
	return &Object{
		Name:  name,
		Scale: geom.Vector3{X: 1, Y: 1, Z: 1},
	}
}

func (o *Object) AddChild(child *Object) *Object {
	o.Children = append(o.Children, child)
	return child
}

// rotation returns the object's local rotation as a quaternion regardless of
// the source rotation mode.
func (o *Object) rotation() *geom.Quaternion {
	switch o.RotationMode {
	case RotationModeQuaternion:
		q := o.Quaternion
		return &q
	case RotationModeAxisAngle:
		return geom.NewQuaternionFromAxisAngle(&o.Axis, o.Angle)
	default:
		e := o.EulerDegrees
		return geom.NewEulerFromDegrees(e.X, e.Y, e.Z, geom.RotationOrderXYZ).ToQuaternion()
	}
}
