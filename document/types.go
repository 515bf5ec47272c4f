package document

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Node is a transform in the scene graph. Matrix is column-major. When it is
// absent the local transform is composed from Translation, Rotation and Scale.
type Node struct {
	Children    []string  `json:"children"`
	Matrix      []float64 `json:"matrix,omitempty"`
	Translation []float64 `json:"translation,omitempty"`
	Rotation    []float64 `json:"rotation,omitempty"`
	Scale       []float64 `json:"scale,omitempty"`
	Meshes      []string  `json:"meshes,omitempty"`
	Name        string    `json:"name,omitempty"`

	Extra Members `json:"-"`
}

type nodeJSON Node

func (n *Node) UnmarshalJSON(data []byte) (err error) {
	n.Extra, err = decodeMembers(data, (*nodeJSON)(n))
	return err
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.Children == nil {
		n.Children = []string{}
	}
	return encodeMembers((nodeJSON)(n), n.Extra)
}

func (n *Node) Clone() *Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	c.Matrix = slices.Clone(n.Matrix)
	c.Translation = slices.Clone(n.Translation)
	c.Rotation = slices.Clone(n.Rotation)
	c.Scale = slices.Clone(n.Scale)
	c.Meshes = slices.Clone(n.Meshes)
	c.Extra = n.Extra.clone()
	return &c
}

type Mesh struct {
	Primitives []*Primitive `json:"primitives"`
	Name       string       `json:"name,omitempty"`

	Extra Members `json:"-"`
}

type meshJSON Mesh

func (m *Mesh) UnmarshalJSON(data []byte) (err error) {
	m.Extra, err = decodeMembers(data, (*meshJSON)(m))
	return err
}

func (m Mesh) MarshalJSON() ([]byte, error) {
	if m.Primitives == nil {
		m.Primitives = []*Primitive{}
	}
	return encodeMembers((meshJSON)(m), m.Extra)
}

// Primitive maps attribute semantics (POSITION, NORMAL, TEXCOORD_0...) to
// accessor identifiers.
type Primitive struct {
	Attributes map[string]string `json:"attributes"`
	Indices    string            `json:"indices,omitempty"`
	Material   string            `json:"material,omitempty"`

	Extra Members `json:"-"`
}

type primitiveJSON Primitive

func (p *Primitive) UnmarshalJSON(data []byte) (err error) {
	p.Extra, err = decodeMembers(data, (*primitiveJSON)(p))
	if p.Attributes == nil {
		p.Attributes = make(map[string]string)
	}
	return err
}

func (p Primitive) MarshalJSON() ([]byte, error) {
	if p.Attributes == nil {
		p.Attributes = map[string]string{}
	}
	return encodeMembers((primitiveJSON)(p), p.Extra)
}

// AttributeBySemantic returns the first attribute (in name order) of the given
// semantic kind.
func (p *Primitive) AttributeBySemantic(s Semantic) (name, accessor string, ok bool) {
	names := maps.Keys(p.Attributes)
	slices.Sort(names)
	for _, name := range names {
		if ParseSemantic(name) == s {
			return name, p.Attributes[name], true
		}
	}
	return "", "", false
}

// Component types and element types of accessors.
const (
	ComponentFloat = 5126
	TypeVec3       = "VEC3"
)

type Accessor struct {
	BufferView    string    `json:"bufferView"`
	ByteOffset    int       `json:"byteOffset"`
	ByteStride    int       `json:"byteStride"`
	Count         int       `json:"count"`
	ComponentType int       `json:"componentType,omitempty"`
	Type          string    `json:"type,omitempty"`
	Min           []float64 `json:"min,omitempty"`
	Max           []float64 `json:"max,omitempty"`

	Extra Members `json:"-"`
}

type accessorJSON Accessor

func (a *Accessor) UnmarshalJSON(data []byte) (err error) {
	a.Extra, err = decodeMembers(data, (*accessorJSON)(a))
	return err
}

func (a Accessor) MarshalJSON() ([]byte, error) {
	return encodeMembers((accessorJSON)(a), a.Extra)
}

func (a *Accessor) Clone() *Accessor {
	c := *a
	c.Min = slices.Clone(a.Min)
	c.Max = slices.Clone(a.Max)
	c.Extra = a.Extra.clone()
	return &c
}

type BufferView struct {
	Buffer     string `json:"buffer"`
	ByteOffset int    `json:"byteOffset"`
	ByteLength int    `json:"byteLength"`

	Extra Members `json:"-"`
}

type bufferViewJSON BufferView

func (v *BufferView) UnmarshalJSON(data []byte) (err error) {
	v.Extra, err = decodeMembers(data, (*bufferViewJSON)(v))
	return err
}

func (v BufferView) MarshalJSON() ([]byte, error) {
	return encodeMembers((bufferViewJSON)(v), v.Extra)
}

type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri"`

	Extra Members `json:"-"`
}

type bufferJSON Buffer

func (b *Buffer) UnmarshalJSON(data []byte) (err error) {
	b.Extra, err = decodeMembers(data, (*bufferJSON)(b))
	return err
}

func (b Buffer) MarshalJSON() ([]byte, error) {
	return encodeMembers((bufferJSON)(b), b.Extra)
}

type Material struct {
	Technique string                 `json:"technique,omitempty"`
	Values    map[string]interface{} `json:"values,omitempty"`
	Name      string                 `json:"name,omitempty"`

	Extra Members `json:"-"`
}

type materialJSON Material

func (m *Material) UnmarshalJSON(data []byte) (err error) {
	m.Extra, err = decodeMembers(data, (*materialJSON)(m))
	return err
}

func (m Material) MarshalJSON() ([]byte, error) {
	return encodeMembers((materialJSON)(m), m.Extra)
}

// Clone copies the material. Values are copied one level deep, which is
// enough since edits only ever replace whole values.
func (m *Material) Clone() *Material {
	c := *m
	if m.Values != nil {
		c.Values = maps.Clone(m.Values)
	}
	c.Extra = m.Extra.clone()
	return &c
}

type Texture struct {
	Format         int    `json:"format,omitempty"`
	InternalFormat int    `json:"internalFormat,omitempty"`
	Sampler        string `json:"sampler,omitempty"`
	Source         string `json:"source,omitempty"`
	Target         int    `json:"target,omitempty"`
	Type           int    `json:"type,omitempty"`

	Extra Members `json:"-"`
}

type textureJSON Texture

func (t *Texture) UnmarshalJSON(data []byte) (err error) {
	t.Extra, err = decodeMembers(data, (*textureJSON)(t))
	return err
}

func (t Texture) MarshalJSON() ([]byte, error) {
	return encodeMembers((textureJSON)(t), t.Extra)
}

type Sampler struct {
	MagFilter int `json:"magFilter,omitempty"`
	MinFilter int `json:"minFilter,omitempty"`
	WrapS     int `json:"wrapS,omitempty"`
	WrapT     int `json:"wrapT,omitempty"`

	Extra Members `json:"-"`
}

type samplerJSON Sampler

func (s *Sampler) UnmarshalJSON(data []byte) (err error) {
	s.Extra, err = decodeMembers(data, (*samplerJSON)(s))
	return err
}

func (s Sampler) MarshalJSON() ([]byte, error) {
	return encodeMembers((samplerJSON)(s), s.Extra)
}

type Image struct {
	URI  string `json:"uri"`
	Name string `json:"name,omitempty"`

	Extra Members `json:"-"`
}

type imageJSON Image

func (i *Image) UnmarshalJSON(data []byte) (err error) {
	i.Extra, err = decodeMembers(data, (*imageJSON)(i))
	return err
}

func (i Image) MarshalJSON() ([]byte, error) {
	return encodeMembers((imageJSON)(i), i.Extra)
}

type Scene struct {
	Nodes []string `json:"nodes"`
	Name  string   `json:"name,omitempty"`

	Extra Members `json:"-"`
}

type sceneJSON Scene

func (s *Scene) UnmarshalJSON(data []byte) (err error) {
	s.Extra, err = decodeMembers(data, (*sceneJSON)(s))
	return err
}

func (s Scene) MarshalJSON() ([]byte, error) {
	if s.Nodes == nil {
		s.Nodes = []string{}
	}
	return encodeMembers((sceneJSON)(s), s.Extra)
}

func (s *Scene) Clone() *Scene {
	c := *s
	c.Nodes = slices.Clone(s.Nodes)
	c.Extra = s.Extra.clone()
	return &c
}

// Extras is the document level "extras" object. Only the lamp table is
// modeled.
type Extras struct {
	Lights map[string]*Light `json:"lights,omitempty"`

	Extra Members `json:"-"`
}

type extrasJSON Extras

func (e *Extras) UnmarshalJSON(data []byte) (err error) {
	e.Extra, err = decodeMembers(data, (*extrasJSON)(e))
	return err
}

func (e Extras) MarshalJSON() ([]byte, error) {
	return encodeMembers((extrasJSON)(e), e.Extra)
}

type Light struct {
	Active *bool `json:"active,omitempty"`

	Extra Members `json:"-"`
}

type lightJSON Light

func (l *Light) UnmarshalJSON(data []byte) (err error) {
	l.Extra, err = decodeMembers(data, (*lightJSON)(l))
	return err
}

func (l Light) MarshalJSON() ([]byte, error) {
	return encodeMembers((lightJSON)(l), l.Extra)
}
