// Package prune removes accessors, buffer views and buffers that are no longer
// referenced, in that order.
package prune

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mogaika/gltf_bake/document"
	"github.com/mogaika/gltf_bake/utils"
)

// Policy decides how the keep list combines with reachability.
type Policy int

const (
	// PolicyRestrictive deletes an accessor when it is unreachable or, if a
	// keep list is given, when it is not in the keep list. With a keep list
	// exactly the kept accessors survive, reachable or not.
	PolicyRestrictive Policy = iota
	// PolicyReachability keeps every reachable accessor plus the keep list.
	PolicyReachability
)

func (p Policy) String() string {
	switch p {
	case PolicyRestrictive:
		return "restrictive"
	case PolicyReachability:
		return "reachability"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "restrictive":
		return PolicyRestrictive, nil
	case "reachability":
		return PolicyReachability, nil
	default:
		return 0, errors.Errorf("unknown prune policy %q", s)
	}
}

type Report struct {
	Accessors   []string
	BufferViews []string
	Buffers     []string
}

func (r *Report) Empty() bool {
	return len(r.Accessors) == 0 && len(r.BufferViews) == 0 && len(r.Buffers) == 0
}

// Prune sweeps the three generations. Each generation is marked from the
// survivors of the previous one.
func Prune(doc *document.Document, keep []string, policy Policy) *Report {
	report := &Report{
		Accessors: sweepAccessors(doc, keep, policy),
	}
	report.BufferViews = sweepBufferViews(doc)
	report.Buffers = sweepBuffers(doc)

	utils.Log().Debug("pruned resources", "policy", policy,
		"accessors", len(report.Accessors), "bufferViews", len(report.BufferViews), "buffers", len(report.Buffers))
	return report
}

// ReachableAccessors collects the index and attribute accessors of every
// primitive of every mesh.
func ReachableAccessors(doc *document.Document) map[string]struct{} {
	used := make(map[string]struct{})
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if prim.Indices != "" {
				used[prim.Indices] = struct{}{}
			}
			for _, id := range prim.Attributes {
				used[id] = struct{}{}
			}
		}
	}
	return used
}

func sweepAccessors(doc *document.Document, keep []string, policy Policy) []string {
	marked := ReachableAccessors(doc)
	kept := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		kept[id] = struct{}{}
		marked[id] = struct{}{}
	}
	restrict := policy == PolicyRestrictive && len(kept) != 0

	var removed []string
	for _, id := range utils.SortedKeys(doc.Accessors) {
		_, isMarked := marked[id]
		_, isKept := kept[id]
		if !isMarked || (restrict && !isKept) {
			delete(doc.Accessors, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func sweepBufferViews(doc *document.Document) []string {
	marked := make(map[string]struct{})
	for _, a := range doc.Accessors {
		marked[a.BufferView] = struct{}{}
	}

	var removed []string
	for _, id := range utils.SortedKeys(doc.BufferViews) {
		if _, ok := marked[id]; !ok {
			delete(doc.BufferViews, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func sweepBuffers(doc *document.Document) []string {
	marked := make(map[string]struct{})
	for _, v := range doc.BufferViews {
		marked[v.Buffer] = struct{}{}
	}

	var removed []string
	for _, id := range utils.SortedKeys(doc.Buffers) {
		if _, ok := marked[id]; !ok {
			delete(doc.Buffers, id)
			removed = append(removed, id)
		}
	}
	return removed
}
