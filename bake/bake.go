// Package bake applies node transforms to mesh vertex data and collapses the
// node out of the scene graph.
package bake

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/mogaika/gltf_bake/accessor"
	"github.com/mogaika/gltf_bake/document"
	"github.com/mogaika/gltf_bake/transform"
	"github.com/mogaika/gltf_bake/utils"
)

type Request struct {
	// Node is removed from the scene graph once its mesh is baked.
	Node string
	// Mesh to bake, empty means the first mesh of Node.
	Mesh string
	// Frame is the node whose transform is applied, empty means Node.
	Frame string
	// Local applies only the local matrix of Frame, ignoring its ancestors.
	Local bool

	// Positions is the identifier the baked position accessor is stored under.
	Positions string
	// Indices is the identifier the index accessor is renamed to.
	Indices string
}

type Result struct {
	Node      string
	Mesh      string
	Frame     string
	Vertices  int
	Transform mgl64.Mat4
	// DroppedNormals is the normal accessor deleted with the bake, if any.
	DroppedNormals string
	Changes        []document.Summary
}

// Baker bakes meshes of one document. The parent index is built once and
// kept in sync with the nodes the baker removes.
type Baker struct {
	doc   *document.Document
	index *transform.ParentIndex
}

func NewBaker(doc *document.Document) *Baker {
	return &Baker{
		doc:   doc,
		index: transform.NewParentIndex(doc),
	}
}

// BakeNode bakes a mesh with the world transform of the node that owns it.
func (b *Baker) BakeNode(node, mesh, positions, indices string) (*Result, error) {
	return b.Bake(Request{Node: node, Mesh: mesh, Positions: positions, Indices: indices})
}

// BakeFrame bakes a mesh with the world transform of frame and removes node.
func (b *Baker) BakeFrame(node, frame, mesh, positions, indices string) (*Result, error) {
	return b.Bake(Request{Node: node, Frame: frame, Mesh: mesh, Positions: positions, Indices: indices})
}

// Bake runs the whole bake against a changeset and commits it only when every
// step succeeded. On error the document is left as it was.
func (b *Baker) Bake(req Request) (*Result, error) {
	if req.Positions == "" || req.Indices == "" || req.Positions == req.Indices {
		return nil, errors.Wrapf(document.ErrInvalidRequest,
			"output accessors %q and %q must be distinct and non empty", req.Positions, req.Indices)
	}

	node, err := b.doc.Node(req.Node)
	if err != nil {
		return nil, err
	}

	meshID := req.Mesh
	if meshID == "" {
		if len(node.Meshes) == 0 {
			return nil, errors.Wrapf(document.ErrNotFound, "node %q has no mesh", req.Node)
		}
		meshID = node.Meshes[0]
	}
	mesh, err := b.doc.Mesh(meshID)
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", req.Node)
	}
	switch len(mesh.Primitives) {
	case 0:
		return nil, errors.Wrapf(document.ErrNotFound, "mesh %q has no primitive", meshID)
	case 1:
	default:
		return nil, errors.Wrapf(document.ErrMultiPrimitiveMesh,
			"mesh %q has %d primitives, does it use more than one material?", meshID, len(mesh.Primitives))
	}
	prim := mesh.Primitives[0]

	_, positionsID, ok := prim.AttributeBySemantic(document.SemanticPosition)
	if !ok {
		return nil, errors.Wrapf(document.ErrNotFound, "mesh %q has no position attribute", meshID)
	}
	if prim.Indices == "" {
		return nil, errors.Wrapf(document.ErrNotFound, "mesh %q has no indices", meshID)
	}
	indicesID := prim.Indices

	result := &Result{Node: req.Node, Mesh: meshID, Frame: req.Frame}
	if result.Frame == "" {
		result.Frame = req.Node
	}

	if result.Transform, err = b.resolve(result.Frame, req.Local); err != nil {
		return nil, errors.Wrapf(err, "transform of %q", result.Frame)
	}

	vertices, err := accessor.ReadVec3f(b.doc, positionsID)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q", meshID)
	}
	result.Vertices = len(vertices)

	cs := document.NewChangeset(b.doc)

	if _, normalsID, ok := prim.AttributeBySemantic(document.SemanticNormal); ok &&
		normalsID != positionsID && normalsID != indicesID {
		cs.DeleteAccessor(normalsID)
		result.DroppedNormals = normalsID
	}

	positions, err := cs.Accessor(positionsID)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q", meshID)
	}
	indices, err := cs.Accessor(indicesID)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q", meshID)
	}
	cs.DeleteAccessor(positionsID)
	cs.DeleteAccessor(indicesID)
	cs.PutAccessor(req.Positions, positions.Clone())
	cs.PutAccessor(req.Indices, indices.Clone())

	if err := accessor.WriteVec3f(cs, req.Positions, transform.ApplyAll(result.Transform, vertices)); err != nil {
		return nil, errors.Wrapf(err, "mesh %q", meshID)
	}

	b.detach(cs, req.Node, meshID)

	result.Changes = cs.Summary()
	if err := cs.Commit(); err != nil {
		return nil, err
	}
	b.index.Detach(req.Node)

	utils.Log().Debug("baked mesh", "node", req.Node, "mesh", meshID, "frame", result.Frame,
		"vertices", result.Vertices, "positions", req.Positions, "indices", req.Indices)
	return result, nil
}

func (b *Baker) resolve(frame string, local bool) (mgl64.Mat4, error) {
	if !local {
		return transform.World(b.doc, b.index, frame)
	}
	node, err := b.doc.Node(frame)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	return transform.Local(node)
}

// detach stages removal of the node and mesh and of every reference to them.
func (b *Baker) detach(cs *document.Changeset, nodeID, meshID string) {
	cs.DeleteMesh(meshID)
	cs.DeleteNode(nodeID)

	for _, id := range utils.SortedKeys(b.doc.Nodes) {
		if id == nodeID {
			continue
		}
		n := b.doc.Nodes[id]
		if !slices.Contains(n.Children, nodeID) && !slices.Contains(n.Meshes, meshID) {
			continue
		}
		edited := n.Clone()
		edited.Children = without(edited.Children, nodeID)
		edited.Meshes = without(edited.Meshes, meshID)
		cs.PutNode(id, edited)
	}

	for _, id := range utils.SortedKeys(b.doc.Scenes) {
		if s := b.doc.Scenes[id]; slices.Contains(s.Nodes, nodeID) {
			edited := s.Clone()
			edited.Nodes = without(edited.Nodes, nodeID)
			cs.PutScene(id, edited)
		}
	}
}

func without(ids []string, id string) []string {
	if ids == nil {
		return nil
	}
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
