package graph

import (
	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

// Repository is a read-only lookup of passages by id. It is safe for
// concurrent use once built.
type Repository struct {
	passages []*common.Passage
	byID     map[int]*common.Passage
}

// NewRepository indexes passages by id. When an id repeats, the later
// record wins and a warning is logged.
func NewRepository(passages []*common.Passage) *Repository {
	r := &Repository{
		passages: make([]*common.Passage, 0, len(passages)),
		byID:     make(map[int]*common.Passage, len(passages)),
	}
	for _, p := range passages {
		if p == nil {
			continue
		}
		if _, dup := r.byID[p.ID]; dup {
			logger.Warn("[Graph] Duplicate passage id, keeping the later record", "id", p.ID, "jad_id", p.JadID)
			for i, existing := range r.passages {
				if existing.ID == p.ID {
					r.passages[i] = p
				}
			}
		} else {
			r.passages = append(r.passages, p)
		}
		r.byID[p.ID] = p
	}
	return r
}

func (r *Repository) Get(id int) (*common.Passage, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// All returns the passages in input order.
func (r *Repository) All() []*common.Passage {
	return r.passages
}

func (r *Repository) Len() int {
	return len(r.passages)
}
