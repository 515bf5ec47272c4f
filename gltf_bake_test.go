package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/gltf_bake/accessor"
	"github.com/mogaika/gltf_bake/document"
)

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		recipePath, bakeSpecs, doPrune, keepIDs, policy = "", nil, false, nil, ""
		watch, dump, verbose = false, false, false
	})
}

func TestParseBake(t *testing.T) {
	b, err := parseBake("Room:Collision_Vertices:Collision_Indices")
	require.NoError(t, err)
	assert.Equal(t, "Room", b.Node)
	assert.Equal(t, "Collision_Vertices", b.Positions)
	assert.Equal(t, "Collision_Indices", b.Indices)

	for _, bad := range []string{"", "Room", "Room:a", "Room:a:b:c"} {
		_, err := parseBake(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadRecipeFlags(t *testing.T) {
	resetFlags(t)
	recipePath = "recipes/office.yaml"
	bakeSpecs = []string{"Desk:Desk_Vertices:Desk_Indices"}
	doPrune = true
	keepIDs = []string{"Desk_Vertices"}
	policy = "reachability"

	r, err := loadRecipe()
	require.NoError(t, err)
	require.Len(t, r.Bakes, 2)
	assert.Equal(t, "Room", r.Bakes[0].Node)
	assert.Equal(t, "Desk", r.Bakes[1].Node)
	assert.True(t, r.Prune.Enabled)
	assert.Equal(t, []string{"Collision_Vertices", "Collision_Indices", "Desk_Vertices"}, r.Prune.Keep)
	assert.Equal(t, "reachability", r.Prune.Policy)
}

func TestLoadRecipeRejectsBadPolicy(t *testing.T) {
	resetFlags(t)
	policy = "greedy"
	_, err := loadRecipe()
	assert.Error(t, err)
}

func writeScene(t *testing.T, path string) {
	t.Helper()
	d := document.New()
	d.Nodes["root"] = &document.Node{Children: []string{"Room"}}
	d.Nodes["Room"] = &document.Node{Translation: []float64{0, 0, 5}, Meshes: []string{"RoomMesh"}}
	d.Meshes["RoomMesh"] = &document.Mesh{Primitives: []*document.Primitive{
		{Attributes: map[string]string{"POSITION": "pos"}, Indices: "idx"},
	}}
	d.Accessors["pos"] = &document.Accessor{ComponentType: document.ComponentFloat, Type: document.TypeVec3}
	require.NoError(t, accessor.WriteVec3f(d, "pos", [][3]float32{{1, 1, 1}, {2, 2, 2}}))
	d.Accessors["idx"] = &document.Accessor{BufferView: "pos_buffer_view", Count: 2, ComponentType: 5123, Type: "SCALAR"}
	require.NoError(t, document.Save(path, d))
}

func TestConvert(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.gltf")
	out := filepath.Join(dir, "out.gltf")
	writeScene(t, in)

	bakeSpecs = []string{"Room:Collision_Vertices:Collision_Indices"}
	require.NoError(t, convert(in, out))

	d, err := document.Load(out)
	require.NoError(t, err)
	assert.NotContains(t, d.Nodes, "Room")
	assert.Empty(t, d.Nodes["root"].Children)
	v, err := accessor.ReadVec3f(d, "Collision_Vertices")
	require.NoError(t, err)
	assert.Equal(t, [][3]float32{{1, 1, 6}, {2, 2, 7}}, v)
}

func TestConvertFailureWritesNothing(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.gltf")
	out := filepath.Join(dir, "out.gltf")
	writeScene(t, in)

	bakeSpecs = []string{"Nowhere:a:b"}
	assert.ErrorIs(t, convert(in, out), document.ErrNotFound)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
