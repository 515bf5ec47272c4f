package recipe

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/mogaika/gltf_bake/document"
	"github.com/mogaika/gltf_bake/utils"
)

const maxMaterialCopies = 999

// materials returns the materials of the mesh primitives in primitive order,
// skipping primitives without a material.
func materials(doc *document.Document, mesh *document.Mesh) ([]*document.Material, error) {
	var out []*document.Material
	for _, prim := range mesh.Primitives {
		if prim.Material == "" {
			continue
		}
		mat, err := doc.Material(prim.Material)
		if err != nil {
			return nil, err
		}
		out = append(out, mat)
	}
	return out, nil
}

// MakeUniqueMaterials gives each primitive of the mesh its own copy of its
// material, named <material>.<n> with the lowest free n.
func MakeUniqueMaterials(doc *document.Document, mesh *document.Mesh) error {
	for _, prim := range mesh.Primitives {
		if prim.Material == "" {
			continue
		}
		mat, err := doc.Material(prim.Material)
		if err != nil {
			return err
		}

		name := ""
		for i := 1; i < maxMaterialCopies; i++ {
			candidate := prim.Material + "." + strconv.Itoa(i)
			if _, exists := doc.Materials[candidate]; !exists {
				name = candidate
				break
			}
		}
		if name == "" {
			return errors.Errorf("no free name for a copy of material %q", prim.Material)
		}

		doc.Materials[name] = mat.Clone()
		prim.Material = name
	}
	return nil
}

// SetDiffusemap replaces the values of every material of the mesh with the
// single lightmap texture value and switches them to technique.
func SetDiffusemap(doc *document.Document, mesh *document.Mesh, value, lightmap, technique string) error {
	mats, err := materials(doc, mesh)
	if err != nil {
		return err
	}
	for _, mat := range mats {
		mat.Values = map[string]interface{}{value: lightmap}
	}
	return SetTechnique(doc, mesh, technique)
}

func SetTechnique(doc *document.Document, mesh *document.Mesh, technique string) error {
	mats, err := materials(doc, mesh)
	if err != nil {
		return err
	}
	for _, mat := range mats {
		mat.Technique = technique
	}
	return nil
}

func RemoveMaterialValues(doc *document.Document, mesh *document.Mesh, names []string) error {
	mats, err := materials(doc, mesh)
	if err != nil {
		return err
	}
	for _, mat := range mats {
		for _, name := range names {
			delete(mat.Values, name)
		}
	}
	return nil
}

// AdjustShininess rescales a shininess value from the exporter's 0..50 range
// onto a 0..16 exponent. Results not above 1 leave the value as it was. The
// seen set makes a material shared by several meshes rescale once.
func AdjustShininess(doc *document.Document, mesh *document.Mesh, name string, seen map[*document.Material]struct{}) error {
	mats, err := materials(doc, mesh)
	if err != nil {
		return err
	}
	for _, mat := range mats {
		if _, done := seen[mat]; done {
			continue
		}
		seen[mat] = struct{}{}

		v, ok := mat.Values[name].(float64)
		if !ok {
			continue
		}
		if shiny := v / 50.0 * 16.0; shiny > 1.0 {
			mat.Values[name] = shiny
		}
	}
	return nil
}

// RemoveUnusedMaterials deletes materials no primitive refers to.
func RemoveUnusedMaterials(doc *document.Document) []string {
	used := make(map[string]struct{})
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			used[prim.Material] = struct{}{}
		}
	}

	var removed []string
	for _, id := range utils.SortedKeys(doc.Materials) {
		if _, ok := used[id]; !ok {
			delete(doc.Materials, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// RemoveUnmaterialedPrimitives drops primitives without a material and
// returns how many were dropped.
func RemoveUnmaterialedPrimitives(doc *document.Document) int {
	removed := 0
	for _, mesh := range doc.Meshes {
		kept := mesh.Primitives[:0]
		for _, prim := range mesh.Primitives {
			if prim.Material == "" {
				removed++
				continue
			}
			kept = append(kept, prim)
		}
		mesh.Primitives = kept
	}
	return removed
}
