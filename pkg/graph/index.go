package graph

import "github.com/jerusalem-70-ad/jad-builder/pkg/common"

// DependencyIndex maps a passage id to the passages that name it as a
// source, in input order.
type DependencyIndex map[int][]*common.Passage

// BuildDependencyIndex inverts the source references of passages. A passage
// that lists the same source twice is recorded once under it. Sources that
// do not resolve to a passage are still indexed; lookups simply never reach
// them.
func BuildDependencyIndex(passages []*common.Passage) DependencyIndex {
	idx := make(DependencyIndex)
	for _, p := range passages {
		if p == nil || len(p.SourcePassages) == 0 {
			continue
		}
		seen := make(map[int]struct{}, len(p.SourcePassages))
		for _, src := range p.SourcePassages {
			if _, ok := seen[src.ID]; ok {
				continue
			}
			seen[src.ID] = struct{}{}
			idx[src.ID] = append(idx[src.ID], p)
		}
	}
	return idx
}

// Descendants returns the direct dependents of id.
func (idx DependencyIndex) Descendants(id int) []*common.Passage {
	return idx[id]
}
