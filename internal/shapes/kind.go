package shapes

import (
	"fmt"
	"strings"
)

// Kind tags the primitive a Shape holds. The set is closed: every Shape
// operation switches over all of these.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSphere
	KindCone
	KindBox
	KindCylinder
	KindCapsule
	KindConvexMesh
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindSphere:     "sphere",
	KindCone:       "cone",
	KindBox:        "box",
	KindCylinder:   "cylinder",
	KindCapsule:    "capsule",
	KindConvexMesh: "convex_mesh",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k names one of the primitives.
func (k Kind) Valid() bool {
	return k > KindInvalid && k <= KindConvexMesh
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindSphere, KindCone, KindBox, KindCylinder, KindCapsule, KindConvexMesh}
}

// ParseKind maps a scene-file name ("cone", "convex_mesh", "ConvexMesh") to a Kind.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	if n == "convexmesh" {
		n = "convex_mesh"
	}
	for _, k := range Kinds() {
		if kindNames[k] == n {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("shapes: unknown kind %q", name)
}

// mismatch panics for an operation reaching a kind it has no case for.
// Only a zero Shape or memory corruption can get here.
func mismatch(op string, k Kind) {
	panic(fmt.Errorf("%w: %s on %s shape", ErrVariantMismatch, op, k))
}
