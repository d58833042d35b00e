// Package enrich joins the raw dataset tables into the denormalised records
// published for the static site.
package enrich

import (
	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

// Result holds every published table of one build.
type Result struct {
	Passages           []*Passage
	Works              []*Work
	Authors            []*Author
	Manuscripts        []*Manuscript
	AuthorsMap         map[string]string
	BiblicalReferences map[string]BiblicalReference
}

// Run enriches ds. repo must index the passages of ds with resolved work
// dates (see ResolveWorkDates); graphs may be nil.
func Run(ds *common.Dataset, repo *graph.Repository, graphs map[int]*graph.TransmissionGraph) *Result {
	dates := NewDateIndex(ds.Dates)

	places := NewPlaceIndex(ds.Places)
	manuscripts := Manuscripts(ds.Manuscripts, NewLibraryIndex(ds.Libraries, places), dates)
	msIndex := NewManuscriptIndex(manuscripts, ds.MsOccurrences)

	authors, authorsMap := Authors(ds.Authors, ds.Works, places)
	logger.Info("[Enrich] Authors enriched", "authors", len(authors))

	refs := BiblicalReferences(ds.BiblicalReferences)
	logger.Info("[Enrich] Biblical references enriched", "references", len(refs))

	works := Works(ds.Works, repo.All(), authors, msIndex, dates)
	logger.Info("[Enrich] Works enriched", "works", len(works))

	passages := Passages(repo, works, msIndex, refs, graphs)
	logger.Info("[Enrich] Passages enriched", "passages", len(passages), "dropped", repo.Len()-len(passages))

	AttachOccurrences(manuscripts, ds.MsOccurrences, passages)
	logger.Info("[Enrich] Manuscripts enriched", "manuscripts", len(manuscripts), "occurrences", len(ds.MsOccurrences))

	return &Result{
		Passages:           passages,
		Works:              works,
		Authors:            authors,
		Manuscripts:        manuscripts,
		AuthorsMap:         authorsMap,
		BiblicalReferences: refs,
	}
}
