// Package transform resolves node world transforms.
//
// Matrices are column-major, the same layout as node matrices in the
// document and as mgl64.Mat4, so node arrays convert without transposing.
package transform

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/mogaika/gltf_bake/document"
	"github.com/mogaika/gltf_bake/utils"
)

// ParentIndex maps a child node to the nodes listing it as a child. It is
// built once and answers parent lookups without scanning every node.
type ParentIndex struct {
	parents map[string][]string
}

func NewParentIndex(doc *document.Document) *ParentIndex {
	idx := &ParentIndex{parents: make(map[string][]string)}
	for _, id := range utils.SortedKeys(doc.Nodes) {
		for _, child := range doc.Nodes[id].Children {
			if slices.Contains(idx.parents[child], id) {
				continue
			}
			idx.parents[child] = append(idx.parents[child], id)
		}
	}
	return idx
}

// Parent returns the unique parent of a node, "" for a root.
func (idx *ParentIndex) Parent(id string) (string, error) {
	switch parents := idx.parents[id]; len(parents) {
	case 0:
		return "", nil
	case 1:
		return parents[0], nil
	default:
		return "", errors.Wrapf(document.ErrCycleOrMultiParent, "node %q has parents %q", id, parents)
	}
}

// Detach forgets every edge touching the node, keeping the index in sync
// with a document the node was removed from.
func (idx *ParentIndex) Detach(id string) {
	delete(idx.parents, id)
	for child, parents := range idx.parents {
		kept := parents[:0]
		for _, p := range parents {
			if p != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(idx.parents, child)
		} else {
			idx.parents[child] = kept
		}
	}
}

// Local returns the node's local matrix. Without a matrix it is composed as
// translation * rotation * scale, missing parts being identity.
func Local(node *document.Node) (mgl64.Mat4, error) {
	if node.Matrix != nil {
		if len(node.Matrix) != 16 {
			return mgl64.Mat4{}, errors.Errorf("matrix has %d elements, expected 16", len(node.Matrix))
		}
		var m mgl64.Mat4
		copy(m[:], node.Matrix)
		return m, nil
	}

	m := mgl64.Ident4()
	if node.Translation != nil {
		if len(node.Translation) != 3 {
			return mgl64.Mat4{}, errors.Errorf("translation has %d elements, expected 3", len(node.Translation))
		}
		m = m.Mul4(mgl64.Translate3D(node.Translation[0], node.Translation[1], node.Translation[2]))
	}
	if node.Rotation != nil {
		if len(node.Rotation) != 4 {
			return mgl64.Mat4{}, errors.Errorf("rotation has %d elements, expected 4", len(node.Rotation))
		}
		q := mgl64.Quat{W: node.Rotation[3], V: mgl64.Vec3{node.Rotation[0], node.Rotation[1], node.Rotation[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if node.Scale != nil {
		if len(node.Scale) != 3 {
			return mgl64.Mat4{}, errors.Errorf("scale has %d elements, expected 3", len(node.Scale))
		}
		m = m.Mul4(mgl64.Scale3D(node.Scale[0], node.Scale[1], node.Scale[2]))
	}
	return m, nil
}

// World composes the local matrices from the node up to its root, each
// ancestor multiplied on the left of the accumulated matrix.
func World(doc *document.Document, idx *ParentIndex, id string) (mgl64.Mat4, error) {
	visited := make(map[string]struct{})
	world := mgl64.Ident4()

	for current := id; current != ""; {
		if _, seen := visited[current]; seen {
			return mgl64.Mat4{}, errors.Wrapf(document.ErrCycleOrMultiParent, "node %q is its own ancestor", current)
		}
		visited[current] = struct{}{}

		node, err := doc.Node(current)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		local, err := Local(node)
		if err != nil {
			return mgl64.Mat4{}, errors.Wrapf(err, "node %q", current)
		}
		world = local.Mul4(world)

		if current, err = idx.Parent(current); err != nil {
			return mgl64.Mat4{}, err
		}
	}
	return world, nil
}

// Apply transforms a position as (x, y, z, 1). The matrix is assumed affine,
// w is neither computed nor divided.
func Apply(m mgl64.Mat4, v [3]float32) [3]float32 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return [3]float32{
		float32(m[0]*x + m[4]*y + m[8]*z + m[12]),
		float32(m[1]*x + m[5]*y + m[9]*z + m[13]),
		float32(m[2]*x + m[6]*y + m[10]*z + m[14]),
	}
}

func ApplyAll(m mgl64.Mat4, values [][3]float32) [][3]float32 {
	out := make([][3]float32, len(values))
	for i, v := range values {
		out[i] = Apply(m, v)
	}
	return out
}
