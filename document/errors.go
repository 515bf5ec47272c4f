package document

import "github.com/pkg/errors"

// Error kinds. Callers match them with errors.Is, the wrapped message names
// the offending identifier.
var (
	ErrNotFound                  = errors.New("not found")
	ErrUnsupportedBufferEncoding = errors.New("unsupported buffer encoding")
	ErrRange                     = errors.New("byte range exceeds backing storage")
	ErrMultiPrimitiveMesh        = errors.New("mesh has more than one primitive")
	ErrCycleOrMultiParent        = errors.New("node has more than one parent or is part of a cycle")
	ErrUnsupportedAccessor       = errors.New("unsupported accessor format")
	ErrInvalidRequest            = errors.New("invalid request")
)

func notFound(kind, id string) error {
	return errors.Wrapf(ErrNotFound, "%s %q", kind, id)
}
