package document

import "strings"

// Semantic is the kind of a primitive attribute, resolved from its name.
type Semantic int

const (
	SemanticUnknown Semantic = iota
	SemanticPosition
	SemanticNormal
	SemanticTexcoord
	SemanticColor
	SemanticJoint
	SemanticWeight
)

var semanticNames = [...]string{
	SemanticUnknown:  "UNKNOWN",
	SemanticPosition: "POSITION",
	SemanticNormal:   "NORMAL",
	SemanticTexcoord: "TEXCOORD",
	SemanticColor:    "COLOR",
	SemanticJoint:    "JOINT",
	SemanticWeight:   "WEIGHT",
}

func (s Semantic) String() string {
	if s < 0 || int(s) >= len(semanticNames) {
		return semanticNames[SemanticUnknown]
	}
	return semanticNames[s]
}

// ParseSemantic classifies an attribute name. Set semantics carry a channel
// suffix after an underscore (TEXCOORD_0, TEXCOORD_UVMap, COLOR_1). NORMALS is
// accepted because some exporters emit it instead of NORMAL.
func ParseSemantic(name string) Semantic {
	base := name
	if i := strings.IndexByte(name, '_'); i >= 0 {
		base = name[:i]
	}
	switch base {
	case "POSITION":
		if base == name {
			return SemanticPosition
		}
	case "NORMAL", "NORMALS":
		if base == name {
			return SemanticNormal
		}
	case "TEXCOORD":
		return SemanticTexcoord
	case "COLOR":
		return SemanticColor
	case "JOINT", "JOINTS":
		return SemanticJoint
	case "WEIGHT", "WEIGHTS":
		return SemanticWeight
	}
	return SemanticUnknown
}
