package geometry

import (
	"fmt"
	"strings"
)

// Kind enumerates the geometry variants
type Kind int

const (
	KindSphere Kind = iota
	KindPlane
	KindBoundedPlane
	KindTriangle
)

var kindNames = [...]string{
	KindSphere:       "sphere",
	KindPlane:        "plane",
	KindBoundedPlane: "bounded_plane",
	KindTriangle:     "triangle",
}

// Kinds lists every variant in declaration order
func Kinds() []Kind {
	return []Kind{KindSphere, KindPlane, KindBoundedPlane, KindTriangle}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a scene document type discriminator to a Kind
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	names := make([]string, 0, len(kindNames))
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	return 0, fmt.Errorf("unknown geometry type %q, expected one of [%s]", name, strings.Join(names, ", "))
}
