package recipe

import (
	"github.com/mogaika/gltf_bake/document"
	"github.com/mogaika/gltf_bake/utils"
)

// SetLampsState switches the listed lamps of the extras light table on or
// off. Names missing from the table are skipped.
func SetLampsState(doc *document.Document, lamps []string, active bool) {
	for _, name := range lamps {
		var light *document.Light
		if doc.Extras != nil {
			light = doc.Extras.Lights[name]
		}
		if light == nil {
			utils.Log().Warn("lamp not found", "lamp", name)
			continue
		}
		state := active
		light.Active = &state
	}
}
