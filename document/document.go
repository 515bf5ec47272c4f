package document

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Document is a scene in the keyed glTF layout: every entity lives in a map
// under its category and references others by identifier only.
type Document struct {
	Nodes       map[string]*Node       `json:"nodes"`
	Meshes      map[string]*Mesh       `json:"meshes"`
	Accessors   map[string]*Accessor   `json:"accessors"`
	BufferViews map[string]*BufferView `json:"bufferViews"`
	Buffers     map[string]*Buffer     `json:"buffers"`
	Materials   map[string]*Material   `json:"materials"`
	Textures    map[string]*Texture    `json:"textures,omitempty"`
	Samplers    map[string]*Sampler    `json:"samplers,omitempty"`
	Images      map[string]*Image      `json:"images,omitempty"`
	Scenes      map[string]*Scene      `json:"scenes,omitempty"`
	Extras      *Extras                `json:"extras,omitempty"`

	Extra Members `json:"-"`
}

type documentJSON Document

func New() *Document {
	d := &Document{}
	d.init()
	return d
}

func (d *Document) init() {
	if d.Nodes == nil {
		d.Nodes = make(map[string]*Node)
	}
	if d.Meshes == nil {
		d.Meshes = make(map[string]*Mesh)
	}
	if d.Accessors == nil {
		d.Accessors = make(map[string]*Accessor)
	}
	if d.BufferViews == nil {
		d.BufferViews = make(map[string]*BufferView)
	}
	if d.Buffers == nil {
		d.Buffers = make(map[string]*Buffer)
	}
	if d.Materials == nil {
		d.Materials = make(map[string]*Material)
	}
	if d.Textures == nil {
		d.Textures = make(map[string]*Texture)
	}
	if d.Samplers == nil {
		d.Samplers = make(map[string]*Sampler)
	}
	if d.Images == nil {
		d.Images = make(map[string]*Image)
	}
	if d.Scenes == nil {
		d.Scenes = make(map[string]*Scene)
	}
}

func (d *Document) UnmarshalJSON(data []byte) (err error) {
	d.Extra, err = decodeMembers(data, (*documentJSON)(d))
	d.init()
	return err
}

func (d Document) MarshalJSON() ([]byte, error) {
	return encodeMembers((documentJSON)(d), d.Extra)
}

func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(err, "failed to decode document")
	}
	return &d, nil
}

// Encode writes the document pretty printed with a trailing newline.
func (d *Document) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "failed to encode document")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %q", path)
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %q", path)
	}
	return d, nil
}

// Save writes the document to path. Nothing is written when encoding fails.
func Save(path string, d *Document) (err error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %q", path)
		}
	}()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return nil
}

func (d *Document) Node(id string) (*Node, error) {
	if n, ok := d.Nodes[id]; ok {
		return n, nil
	}
	return nil, notFound("node", id)
}

func (d *Document) Mesh(id string) (*Mesh, error) {
	if m, ok := d.Meshes[id]; ok {
		return m, nil
	}
	return nil, notFound("mesh", id)
}

func (d *Document) Accessor(id string) (*Accessor, error) {
	if a, ok := d.Accessors[id]; ok {
		return a, nil
	}
	return nil, notFound("accessor", id)
}

func (d *Document) BufferView(id string) (*BufferView, error) {
	if v, ok := d.BufferViews[id]; ok {
		return v, nil
	}
	return nil, notFound("buffer view", id)
}

func (d *Document) Buffer(id string) (*Buffer, error) {
	if b, ok := d.Buffers[id]; ok {
		return b, nil
	}
	return nil, notFound("buffer", id)
}

func (d *Document) Material(id string) (*Material, error) {
	if m, ok := d.Materials[id]; ok {
		return m, nil
	}
	return nil, notFound("material", id)
}

func (d *Document) PutAccessor(id string, a *Accessor)     { d.Accessors[id] = a }
func (d *Document) PutBufferView(id string, v *BufferView) { d.BufferViews[id] = v }
func (d *Document) PutBuffer(id string, b *Buffer)         { d.Buffers[id] = b }
