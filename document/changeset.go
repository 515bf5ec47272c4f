package document

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type layer[T any] struct {
	put map[string]*T
	del map[string]struct{}
}

func (l *layer[T]) get(base map[string]*T, id string) (*T, bool) {
	if v, ok := l.put[id]; ok {
		return v, true
	}
	if _, ok := l.del[id]; ok {
		return nil, false
	}
	v, ok := base[id]
	return v, ok
}

func (l *layer[T]) set(id string, v *T) {
	if l.put == nil {
		l.put = make(map[string]*T)
	}
	l.put[id] = v
	delete(l.del, id)
}

func (l *layer[T]) remove(id string) {
	if l.del == nil {
		l.del = make(map[string]struct{})
	}
	l.del[id] = struct{}{}
	delete(l.put, id)
}

func (l *layer[T]) apply(base map[string]*T) {
	for id := range l.del {
		delete(base, id)
	}
	for id, v := range l.put {
		base[id] = v
	}
}

func (l *layer[T]) changed() (put, del []string) {
	put, del = maps.Keys(l.put), maps.Keys(l.del)
	slices.Sort(put)
	slices.Sort(del)
	return put, del
}

// Changeset stages edits over a document. Reads see the staged state, the
// document itself is untouched until Commit.
type Changeset struct {
	base      *Document
	committed bool

	nodes       layer[Node]
	meshes      layer[Mesh]
	accessors   layer[Accessor]
	bufferViews layer[BufferView]
	buffers     layer[Buffer]
	scenes      layer[Scene]
}

func NewChangeset(base *Document) *Changeset {
	return &Changeset{base: base}
}

func (c *Changeset) Node(id string) (*Node, error) {
	if n, ok := c.nodes.get(c.base.Nodes, id); ok {
		return n, nil
	}
	return nil, notFound("node", id)
}

func (c *Changeset) Mesh(id string) (*Mesh, error) {
	if m, ok := c.meshes.get(c.base.Meshes, id); ok {
		return m, nil
	}
	return nil, notFound("mesh", id)
}

func (c *Changeset) Accessor(id string) (*Accessor, error) {
	if a, ok := c.accessors.get(c.base.Accessors, id); ok {
		return a, nil
	}
	return nil, notFound("accessor", id)
}

func (c *Changeset) BufferView(id string) (*BufferView, error) {
	if v, ok := c.bufferViews.get(c.base.BufferViews, id); ok {
		return v, nil
	}
	return nil, notFound("buffer view", id)
}

func (c *Changeset) Buffer(id string) (*Buffer, error) {
	if b, ok := c.buffers.get(c.base.Buffers, id); ok {
		return b, nil
	}
	return nil, notFound("buffer", id)
}

func (c *Changeset) PutNode(id string, n *Node)             { c.nodes.set(id, n) }
func (c *Changeset) PutScene(id string, s *Scene)           { c.scenes.set(id, s) }
func (c *Changeset) PutAccessor(id string, a *Accessor)     { c.accessors.set(id, a) }
func (c *Changeset) PutBufferView(id string, v *BufferView) { c.bufferViews.set(id, v) }
func (c *Changeset) PutBuffer(id string, b *Buffer)         { c.buffers.set(id, b) }

func (c *Changeset) DeleteNode(id string)     { c.nodes.remove(id) }
func (c *Changeset) DeleteMesh(id string)     { c.meshes.remove(id) }
func (c *Changeset) DeleteAccessor(id string) { c.accessors.remove(id) }

// Commit applies every staged edit to the document. A changeset commits once.
func (c *Changeset) Commit() error {
	if c.committed {
		return errors.New("changeset already committed")
	}
	c.committed = true

	c.nodes.apply(c.base.Nodes)
	c.meshes.apply(c.base.Meshes)
	c.accessors.apply(c.base.Accessors)
	c.bufferViews.apply(c.base.BufferViews)
	c.buffers.apply(c.base.Buffers)
	c.scenes.apply(c.base.Scenes)
	return nil
}

// Summary lists the staged identifiers per category, for logs and dumps.
type Summary struct {
	Category string
	Put      []string
	Deleted  []string
}

func (c *Changeset) Summary() []Summary {
	var out []Summary
	add := func(category string, put, del []string) {
		if len(put) != 0 || len(del) != 0 {
			out = append(out, Summary{Category: category, Put: put, Deleted: del})
		}
	}
	put, del := c.nodes.changed()
	add("nodes", put, del)
	put, del = c.meshes.changed()
	add("meshes", put, del)
	put, del = c.accessors.changed()
	add("accessors", put, del)
	put, del = c.bufferViews.changed()
	add("bufferViews", put, del)
	put, del = c.buffers.changed()
	add("buffers", put, del)
	put, del = c.scenes.changed()
	add("scenes", put, del)
	return out
}
