// Package recipe drives a whole conversion: the bakes, the lightmap and
// material edits and the final cleanup, all named by a config.Recipe.
package recipe

import (
	"github.com/pkg/errors"

	"github.com/mogaika/gltf_bake/bake"
	"github.com/mogaika/gltf_bake/config"
	"github.com/mogaika/gltf_bake/document"
	"github.com/mogaika/gltf_bake/prune"
	"github.com/mogaika/gltf_bake/utils"
)

type Report struct {
	Bakes []*bake.Result
	// Lightmapped and Plain count the meshes that got each material treatment.
	Lightmapped       int
	Plain             int
	Textures          []string
	RemovedMaterials  []string
	RemovedPrimitives int
	Prune             *prune.Report
}

// Run applies r to doc in place. Steps run in a fixed order and the first
// failing step stops the run; the caller must not save doc after an error.
func Run(doc *document.Document, r *config.Recipe) (*Report, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rep := &Report{}

	baker := bake.NewBaker(doc)
	for _, b := range r.Bakes {
		res, err := baker.Bake(bake.Request{
			Node:      b.Node,
			Mesh:      b.Mesh,
			Frame:     b.Frame,
			Local:     b.Local,
			Positions: b.Positions,
			Indices:   b.Indices,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "bake %q", b.Node)
		}
		rep.Bakes = append(rep.Bakes, res)
	}

	rep.Textures = addLightmaps(doc, &r.Lightmaps)

	if err := editMaterials(doc, r, rep); err != nil {
		return nil, err
	}

	if !r.Materials.KeepUnmaterialedPrim {
		rep.RemovedPrimitives = RemoveUnmaterialedPrimitives(doc)
	}
	if !r.Materials.KeepUnused {
		rep.RemovedMaterials = RemoveUnusedMaterials(doc)
	}

	SetLampsState(doc, r.Lamps.Off, false)
	SetLampsState(doc, r.Lamps.On, true)

	if r.Prune.Enabled {
		policy, err := prune.ParsePolicy(r.Prune.Policy)
		if err != nil {
			return nil, err
		}
		rep.Prune = prune.Prune(doc, r.Prune.Keep, policy)
	}

	utils.Log().Debug("recipe applied", "bakes", len(rep.Bakes), "lightmapped", rep.Lightmapped,
		"plain", rep.Plain, "removedMaterials", len(rep.RemovedMaterials),
		"removedPrimitives", rep.RemovedPrimitives)
	return rep, nil
}

// addLightmaps registers an image and a texture for every distinct lightmap
// and the sampler they share. Returns the texture ids in order.
func addLightmaps(doc *document.Document, lm *config.Lightmaps) []string {
	if len(lm.Nodes) == 0 {
		return nil
	}

	images := make(map[string]string)
	textures := make(map[string]string)
	for _, tex := range lm.Nodes {
		image := tex + "_image"
		images[image] = tex + lm.ImageExt
		textures[tex] = image
	}

	AddImages(doc, images, lm.ImageDir)
	AddLightmapSampler(doc, lm.Sampler)
	AddTextures(doc, textures, lm.Sampler)
	return utils.SortedKeys(textures)
}

func editMaterials(doc *document.Document, r *config.Recipe, rep *Report) error {
	lm := &r.Lightmaps
	done := make(map[string]struct{})
	shiny := make(map[*document.Material]struct{})

	// lightmapped nodes first, a mesh shared with a plain node keeps the lightmap
	for _, nodeID := range utils.SortedKeys(lm.Nodes) {
		node, err := doc.Node(nodeID)
		if err != nil {
			return errors.Wrap(err, "lightmap")
		}
		for _, meshID := range node.Meshes {
			if _, ok := done[meshID]; ok {
				continue
			}
			done[meshID] = struct{}{}

			mesh, err := doc.Mesh(meshID)
			if err != nil {
				return errors.Wrapf(err, "node %q", nodeID)
			}
			if err := MakeUniqueMaterials(doc, mesh); err != nil {
				return errors.Wrapf(err, "mesh %q", meshID)
			}
			if err := SetDiffusemap(doc, mesh, lm.Value, lm.Nodes[nodeID], lm.Technique); err != nil {
				return errors.Wrapf(err, "mesh %q", meshID)
			}
			if lm.TexcoordFrom != "" {
				RenameAttribute(mesh, lm.TexcoordFrom, lm.TexcoordTo)
			}
			rep.Lightmapped++
		}
	}

	m := &r.Materials
	for _, nodeID := range utils.SortedKeys(doc.Nodes) {
		for _, meshID := range doc.Nodes[nodeID].Meshes {
			if _, ok := done[meshID]; ok {
				continue
			}
			done[meshID] = struct{}{}

			mesh, err := doc.Mesh(meshID)
			if err != nil {
				return errors.Wrapf(err, "node %q", nodeID)
			}
			if err := RemoveMaterialValues(doc, mesh, m.StripValues); err != nil {
				return errors.Wrapf(err, "mesh %q", meshID)
			}
			if m.Shininess != "" {
				if err := AdjustShininess(doc, mesh, m.Shininess, shiny); err != nil {
					return errors.Wrapf(err, "mesh %q", meshID)
				}
			}
			if m.Technique != "" {
				if err := SetTechnique(doc, mesh, m.Technique); err != nil {
					return errors.Wrapf(err, "mesh %q", meshID)
				}
			}
			if !m.KeepTexcoords {
				RemoveTexcoords(mesh)
			}
			rep.Plain++
		}
	}
	return nil
}
