package recipe

import "github.com/mogaika/gltf_bake/document"

// RemoveTexcoords drops every texture coordinate attribute of the mesh.
func RemoveTexcoords(mesh *document.Mesh) {
	for _, prim := range mesh.Primitives {
		for name := range prim.Attributes {
			if document.ParseSemantic(name) == document.SemanticTexcoord {
				delete(prim.Attributes, name)
			}
		}
	}
}

// RenameAttribute moves the accessor of attribute from to attribute to on
// every primitive that has it.
func RenameAttribute(mesh *document.Mesh, from, to string) {
	for _, prim := range mesh.Primitives {
		if acc, ok := prim.Attributes[from]; ok {
			delete(prim.Attributes, from)
			prim.Attributes[to] = acc
		}
	}
}
