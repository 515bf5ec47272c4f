package bake

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/gltf_bake/accessor"
	"github.com/mogaika/gltf_bake/buffers"
	"github.com/mogaika/gltf_bake/document"
)

var square = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

func matrix(m mgl64.Mat4) []float64 {
	return append([]float64(nil), m[:]...)
}

func packVec3(values [][3]float32) []byte {
	data := make([]byte, len(values)*12)
	for i, v := range values {
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint32(data[i*12+c*4:], math.Float32bits(v[c]))
		}
	}
	return data
}

// sceneDoc builds root -> Room -> Collision where Collision owns a single
// primitive mesh with positions, normals and indices.
func sceneDoc(roomMatrix, collisionMatrix mgl64.Mat4) *document.Document {
	d := document.New()
	d.Scenes["scene"] = &document.Scene{Nodes: []string{"root", "Collision"}}
	d.Nodes["root"] = &document.Node{Children: []string{"Room"}, Matrix: matrix(mgl64.Ident4())}
	d.Nodes["Room"] = &document.Node{Children: []string{"Collision", "Lamp"}, Matrix: matrix(roomMatrix)}
	d.Nodes["Lamp"] = &document.Node{Matrix: matrix(mgl64.Ident4())}
	d.Nodes["Collision"] = &document.Node{
		Children: []string{"Detail"},
		Matrix:   matrix(collisionMatrix),
		Meshes:   []string{"CollisionMesh"},
	}
	d.Nodes["Detail"] = &document.Node{}

	d.Meshes["CollisionMesh"] = &document.Mesh{Primitives: []*document.Primitive{{
		Attributes: map[string]string{"POSITION": "pos", "NORMAL": "nrm"},
		Indices:    "idx",
		Material:   "mat",
	}}}

	posData := packVec3(square)
	d.Buffers["geometry"] = &document.Buffer{ByteLength: len(posData), URI: buffers.EncodeURI(posData)}
	d.BufferViews["geometry_view"] = &document.BufferView{Buffer: "geometry", ByteLength: len(posData)}
	d.Accessors["pos"] = &document.Accessor{
		BufferView: "geometry_view", ByteStride: 12, Count: len(square),
		ComponentType: document.ComponentFloat, Type: document.TypeVec3,
	}
	d.Accessors["nrm"] = &document.Accessor{
		BufferView: "geometry_view", ByteStride: 12, Count: len(square),
		ComponentType: document.ComponentFloat, Type: document.TypeVec3,
	}
	d.Accessors["idx"] = &document.Accessor{BufferView: "geometry_view", Count: 6, ComponentType: 5123, Type: "SCALAR"}
	return d
}

func encoded(t *testing.T, d *document.Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, d.Encode(&buf))
	return buf.String()
}

func assertVertices(t *testing.T, expected, got [][3]float32) {
	t.Helper()
	require.Len(t, got, len(expected))
	for i := range expected {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, expected[i][c], got[i][c], 1e-5, "vertex %d component %d", i, c)
		}
	}
}

func TestBakeIdentityKeepsGeometry(t *testing.T) {
	d := sceneDoc(mgl64.Ident4(), mgl64.Ident4())
	before, err := accessor.ReadVec3f(d, "pos")
	require.NoError(t, err)

	res, err := NewBaker(d).BakeNode("Collision", "", "Collision_Vertices", "Collision_Indices")
	require.NoError(t, err)
	assert.Equal(t, "CollisionMesh", res.Mesh)
	assert.Equal(t, 4, res.Vertices)

	after, err := accessor.ReadVec3f(d, "Collision_Vertices")
	require.NoError(t, err)
	assertVertices(t, before, after)
}

func TestBakeAppliesWorldTransform(t *testing.T) {
	d := sceneDoc(mgl64.Translate3D(1, 0, 0), mgl64.Translate3D(0, 2, 0))

	_, err := NewBaker(d).BakeNode("Collision", "CollisionMesh", "Collision_Vertices", "Collision_Indices")
	require.NoError(t, err)

	after, err := accessor.ReadVec3f(d, "Collision_Vertices")
	require.NoError(t, err)
	assertVertices(t, [][3]float32{{1, 2, 0}, {2, 2, 0}, {2, 3, 0}, {1, 3, 0}}, after)

	a := d.Accessors["Collision_Vertices"]
	assert.Equal(t, 12, a.ByteStride)
	assert.Equal(t, 0, a.ByteOffset)
	assert.Equal(t, "Collision_Vertices_buffer_view", a.BufferView)
	assert.Equal(t, "Collision_Vertices_buffer", d.BufferViews[a.BufferView].Buffer)
}

func TestBakeGraphIntegrity(t *testing.T) {
	d := sceneDoc(mgl64.Ident4(), mgl64.Ident4())
	d.Nodes["Mirror"] = &document.Node{Meshes: []string{"CollisionMesh", "Other"}}

	res, err := NewBaker(d).BakeNode("Collision", "", "Collision_Vertices", "Collision_Indices")
	require.NoError(t, err)
	assert.Equal(t, "nrm", res.DroppedNormals)
	assert.NotEmpty(t, res.Changes)

	assert.NotContains(t, d.Nodes, "Collision")
	assert.NotContains(t, d.Meshes, "CollisionMesh")
	for id, n := range d.Nodes {
		assert.NotContains(t, n.Children, "Collision", "children of %q", id)
		assert.NotContains(t, n.Meshes, "CollisionMesh", "meshes of %q", id)
	}
	assert.Equal(t, []string{"Lamp"}, d.Nodes["Room"].Children)
	assert.Equal(t, []string{"Other"}, d.Nodes["Mirror"].Meshes)
	assert.Equal(t, []string{"root"}, d.Scenes["scene"].Nodes)
	assert.Contains(t, d.Nodes, "Detail")

	for _, old := range []string{"pos", "idx", "nrm"} {
		assert.NotContains(t, d.Accessors, old)
	}
	assert.Contains(t, d.Accessors, "Collision_Vertices")
	require.Contains(t, d.Accessors, "Collision_Indices")
	assert.Equal(t, "SCALAR", d.Accessors["Collision_Indices"].Type)
	assert.Equal(t, 6, d.Accessors["Collision_Indices"].Count)
	assert.Equal(t, "geometry_view", d.Accessors["Collision_Indices"].BufferView)
}

func TestBakeFrame(t *testing.T) {
	d := sceneDoc(mgl64.Translate3D(5, 0, 0), mgl64.Translate3D(0, 100, 0))

	res, err := NewBaker(d).BakeFrame("Collision", "Room", "", "v", "i")
	require.NoError(t, err)
	assert.Equal(t, "Room", res.Frame)

	after, err := accessor.ReadVec3f(d, "v")
	require.NoError(t, err)
	assertVertices(t, [][3]float32{{5, 0, 0}, {6, 0, 0}, {6, 1, 0}, {5, 1, 0}}, after)
	assert.Contains(t, d.Nodes, "Room")
	assert.NotContains(t, d.Nodes, "Collision")
}

func TestBakeLocal(t *testing.T) {
	d := sceneDoc(mgl64.Translate3D(5, 0, 0), mgl64.Scale3D(2, 2, 2))

	_, err := NewBaker(d).Bake(Request{Node: "Collision", Local: true, Positions: "v", Indices: "i"})
	require.NoError(t, err)

	after, err := accessor.ReadVec3f(d, "v")
	require.NoError(t, err)
	assertVertices(t, [][3]float32{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}, after)
}

func TestBakeMultiPrimitiveLeavesDocument(t *testing.T) {
	d := sceneDoc(mgl64.Ident4(), mgl64.Ident4())
	mesh := d.Meshes["CollisionMesh"]
	mesh.Primitives = append(mesh.Primitives, &document.Primitive{
		Attributes: map[string]string{"POSITION": "pos"}, Indices: "idx",
	})
	before := encoded(t, d)

	_, err := NewBaker(d).BakeNode("Collision", "", "v", "i")
	assert.True(t, errors.Is(err, document.ErrMultiPrimitiveMesh))
	assert.Equal(t, before, encoded(t, d))
}

func TestBakeUnsupportedBufferLeavesDocument(t *testing.T) {
	d := sceneDoc(mgl64.Ident4(), mgl64.Ident4())
	d.Buffers["geometry"].URI = "http://example/data.bin"
	before := encoded(t, d)

	_, err := NewBaker(d).BakeNode("Collision", "", "v", "i")
	assert.True(t, errors.Is(err, document.ErrUnsupportedBufferEncoding))
	assert.Equal(t, before, encoded(t, d))
}

func TestBakeFailuresLeaveDocument(t *testing.T) {
	for _, test := range []struct {
		name   string
		edit   func(d *document.Document)
		req    Request
		expect error
	}{
		{"missing node", nil, Request{Node: "Ghost", Positions: "v", Indices: "i"}, document.ErrNotFound},
		{"node without mesh", nil, Request{Node: "Lamp", Positions: "v", Indices: "i"}, document.ErrNotFound},
		{"missing mesh", nil, Request{Node: "Collision", Mesh: "Ghost", Positions: "v", Indices: "i"}, document.ErrNotFound},
		{"same outputs", nil, Request{Node: "Collision", Positions: "v", Indices: "v"}, document.ErrInvalidRequest},
		{"empty output", nil, Request{Node: "Collision", Positions: "v"}, document.ErrInvalidRequest},
		{"missing index accessor", func(d *document.Document) { delete(d.Accessors, "idx") },
			Request{Node: "Collision", Positions: "v", Indices: "i"}, document.ErrNotFound},
		{"short buffer", func(d *document.Document) { d.Accessors["pos"].Count = 10 },
			Request{Node: "Collision", Positions: "v", Indices: "i"}, document.ErrRange},
		{"shared child", func(d *document.Document) { d.Nodes["Lamp"].Children = []string{"Collision"} },
			Request{Node: "Collision", Positions: "v", Indices: "i"}, document.ErrCycleOrMultiParent},
		{"no primitives", func(d *document.Document) { d.Meshes["CollisionMesh"].Primitives = nil },
			Request{Node: "Collision", Positions: "v", Indices: "i"}, document.ErrNotFound},
	} {
		d := sceneDoc(mgl64.Ident4(), mgl64.Ident4())
		if test.edit != nil {
			test.edit(d)
		}
		before := encoded(t, d)

		_, err := NewBaker(d).Bake(test.req)
		assert.True(t, errors.Is(err, test.expect), "%s: %v", test.name, err)
		assert.Equal(t, before, encoded(t, d), test.name)
	}
}

func TestBakeRerunOverwritesOutputs(t *testing.T) {
	d := sceneDoc(mgl64.Ident4(), mgl64.Ident4())
	d.Accessors["v"] = &document.Accessor{BufferView: "stale", Count: 99}

	_, err := NewBaker(d).BakeNode("Collision", "", "v", "i")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Accessors["v"].Count)
	assert.Equal(t, "v_buffer_view", d.Accessors["v"].BufferView)
}

func TestBakerKeepsIndexInSync(t *testing.T) {
	d := sceneDoc(mgl64.Translate3D(1, 0, 0), mgl64.Ident4())
	d.Meshes["DetailMesh"] = &document.Mesh{Primitives: []*document.Primitive{{
		Attributes: map[string]string{"POSITION": "dpos"}, Indices: "didx",
	}}}
	d.Accessors["dpos"] = d.Accessors["pos"].Clone()
	d.Accessors["didx"] = d.Accessors["idx"].Clone()
	d.Nodes["Detail"].Meshes = []string{"DetailMesh"}

	b := NewBaker(d)
	_, err := b.BakeNode("Collision", "", "v", "i")
	require.NoError(t, err)

	// Detail lost its parent with Collision and is now a root
	_, err = b.BakeNode("Detail", "", "dv", "di")
	require.NoError(t, err)
	after, err := accessor.ReadVec3f(d, "dv")
	require.NoError(t, err)
	assertVertices(t, square, after)
}
