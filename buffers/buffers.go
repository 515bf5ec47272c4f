// Package buffers locates buffer-view bytes inside base64 embedded buffers
// and allocates new embedded buffers.
package buffers

import (
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/gltf_bake/document"
)

// EmbeddedPrefix is the only buffer URI form supported.
const EmbeddedPrefix = "data:text/plain;base64,"

func EncodeURI(data []byte) string {
	return EmbeddedPrefix + base64.StdEncoding.EncodeToString(data)
}

func DecodeBuffer(buffer *document.Buffer) ([]byte, error) {
	if !strings.HasPrefix(buffer.URI, EmbeddedPrefix) {
		return nil, errors.Wrapf(document.ErrUnsupportedBufferEncoding, "uri %q", shortURI(buffer.URI))
	}
	data, err := base64.StdEncoding.DecodeString(buffer.URI[len(EmbeddedPrefix):])
	if err != nil {
		return nil, errors.Wrapf(document.ErrUnsupportedBufferEncoding, "malformed base64 payload: %v", err)
	}
	return data, nil
}

// ReadView returns exactly the bytes of the buffer view.
func ReadView(store document.Store, viewID string) ([]byte, error) {
	view, err := store.BufferView(viewID)
	if err != nil {
		return nil, err
	}
	buffer, err := store.Buffer(view.Buffer)
	if err != nil {
		return nil, errors.Wrapf(err, "buffer view %q", viewID)
	}
	data, err := DecodeBuffer(buffer)
	if err != nil {
		return nil, errors.Wrapf(err, "buffer %q", view.Buffer)
	}

	start, length := view.ByteOffset, view.ByteLength
	if start < 0 || length < 0 || start > len(data) || length > len(data)-start {
		return nil, errors.Wrapf(document.ErrRange,
			"buffer view %q (offset %d, length %d) in buffer %q of %d bytes", viewID, start, length, view.Buffer, len(data))
	}
	return data[start : start+length], nil
}

// WriteView stores data as a new embedded buffer and a buffer view spanning
// all of it. Existing entries with the same identifiers are replaced.
func WriteView(store document.Store, bufferID, viewID string, data []byte) {
	store.PutBuffer(bufferID, &document.Buffer{
		ByteLength: len(data),
		URI:        EncodeURI(data),
	})
	store.PutBufferView(viewID, &document.BufferView{
		Buffer:     bufferID,
		ByteOffset: 0,
		ByteLength: len(data),
	})
}

func shortURI(uri string) string {
	const max = 48
	if len(uri) > max {
		return uri[:max] + "..."
	}
	return uri
}
