// Package accessor reads and writes float32 vec3 accessors.
package accessor

import (
	"math"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf/binary"

	"github.com/mogaika/gltf_bake/buffers"
	"github.com/mogaika/gltf_bake/document"
)

// Vec3Size is the size of a tightly packed 3 x float32 element.
const Vec3Size = 3 * 4

func checkVec3(id string, a *document.Accessor) error {
	if a.ComponentType != 0 && a.ComponentType != document.ComponentFloat {
		return errors.Wrapf(document.ErrUnsupportedAccessor, "accessor %q component type %d", id, a.ComponentType)
	}
	if a.Type != "" && a.Type != document.TypeVec3 {
		return errors.Wrapf(document.ErrUnsupportedAccessor, "accessor %q type %q", id, a.Type)
	}
	if a.Count < 0 || a.ByteOffset < 0 || a.ByteStride < 0 {
		return errors.Wrapf(document.ErrRange, "accessor %q has negative layout values", id)
	}
	return nil
}

// ReadVec3f reads every element of a float32 vec3 accessor. A zero stride
// means tightly packed elements.
func ReadVec3f(store document.Store, id string) ([][3]float32, error) {
	a, err := store.Accessor(id)
	if err != nil {
		return nil, err
	}
	if err := checkVec3(id, a); err != nil {
		return nil, err
	}

	data, err := buffers.ReadView(store, a.BufferView)
	if err != nil {
		return nil, errors.Wrapf(err, "accessor %q", id)
	}

	stride := a.ByteStride
	if stride == 0 {
		stride = Vec3Size
	}
	// compared by division, huge counts must not overflow
	if a.Count > 0 {
		if a.ByteOffset > len(data)-Vec3Size || a.Count-1 > (len(data)-Vec3Size-a.ByteOffset)/stride {
			return nil, errors.Wrapf(document.ErrRange,
				"accessor %q (offset %d, stride %d, count %d) does not fit buffer view %q of %d bytes",
				id, a.ByteOffset, stride, a.Count, a.BufferView, len(data))
		}
	}

	values := make([][3]float32, a.Count)
	for i := range values {
		values[i] = binary.Float.Vec3(data[a.ByteOffset+i*stride:])
	}
	return values, nil
}

// WriteVec3f packs values into a new buffer and buffer view named after the
// accessor and points the accessor at them.
func WriteVec3f(store document.Store, id string, values [][3]float32) error {
	a, err := store.Accessor(id)
	if err != nil {
		return err
	}
	if err := checkVec3(id, a); err != nil {
		return err
	}

	data := make([]byte, len(values)*Vec3Size)
	for i, v := range values {
		binary.Float.PutVec3(data[i*Vec3Size:], v)
	}

	bufferID, viewID := id+"_buffer", id+"_buffer_view"
	buffers.WriteView(store, bufferID, viewID, data)

	updated := a.Clone()
	updated.BufferView = viewID
	updated.ByteOffset = 0
	updated.ByteStride = Vec3Size
	updated.Count = len(values)
	updated.Min, updated.Max = Bounds(values)
	store.PutAccessor(id, updated)
	return nil
}

// Bounds returns the per component minimum and maximum. It returns nil when
// there are no values or a bound is not finite, since JSON cannot hold it.
func Bounds(values [][3]float32) (min, max []float64) {
	if len(values) == 0 {
		return nil, nil
	}
	min = []float64{float64(values[0][0]), float64(values[0][1]), float64(values[0][2])}
	max = []float64{min[0], min[1], min[2]}
	for _, v := range values[1:] {
		for c := 0; c < 3; c++ {
			f := float64(v[c])
			if f < min[c] {
				min[c] = f
			}
			if f > max[c] {
				max[c] = f
			}
		}
	}
	for c := 0; c < 3; c++ {
		if math.IsNaN(min[c]) || math.IsInf(min[c], 0) || math.IsNaN(max[c]) || math.IsInf(max[c], 0) {
			return nil, nil
		}
	}
	return min, max
}
