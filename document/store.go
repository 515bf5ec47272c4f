package document

// Store is the view of a document the binary layers read from and write to.
// *Document edits in place, *Changeset stages edits until Commit.
type Store interface {
	Accessor(id string) (*Accessor, error)
	BufferView(id string) (*BufferView, error)
	Buffer(id string) (*Buffer, error)

	PutAccessor(id string, a *Accessor)
	PutBufferView(id string, v *BufferView)
	PutBuffer(id string, b *Buffer)
}

var (
	_ Store = (*Document)(nil)
	_ Store = (*Changeset)(nil)
)
