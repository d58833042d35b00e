package enrich

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/jerusalem-70-ad/jad-builder/internal/util"
	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
)

var rePassagePage = regexp.MustCompile(`p\. (\d+\w?)`)

// SourceSummary describes a source passage inline.
type SourceSummary struct {
	ID             int    `json:"id"`
	JadID          string `json:"jad_id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	PositionInWork string `json:"position_in_work"`
	Passage        string `json:"passage"`
}

// Passage is a row of the published passages.json.
type Passage struct {
	ID                   int                      `json:"id"`
	JadID                string                   `json:"jad_id"`
	Passage              string                   `json:"passage"`
	Work                 []*Work                  `json:"work"`
	PositionInWork       string                   `json:"position_in_work"`
	Pages                *string                  `json:"pages"`
	Note                 json.RawMessage          `json:"note,omitempty"`
	ExplicitContempRef   json.RawMessage          `json:"explicit_contemp_ref,omitempty"`
	BiblicalReferences   []BiblicalReference      `json:"biblical_references"`
	Keywords             json.RawMessage          `json:"keywords,omitempty"`
	PartOfCluster        json.RawMessage          `json:"part_of_cluster,omitempty"`
	LiturgicalReferences json.RawMessage          `json:"liturgical_references,omitempty"`
	OccurrenceFoundIn    json.RawMessage          `json:"occurrence_found_in"`
	MssOccurrences       []MsOccurrence           `json:"mss_occurrences"`
	SourcePassage        []SourceSummary          `json:"source_passage"`
	Incipit              json.RawMessage          `json:"incipit,omitempty"`
	Prev                 NavItem                  `json:"prev"`
	Next                 NavItem                  `json:"next"`
	TextParagraph        string                   `json:"text_paragraph"`
	BiblicalRefLvl0      []string                 `json:"biblical_ref_lvl0"`
	BiblicalRefLvl1      []string                 `json:"biblical_ref_lvl1"`
	BiblicalRefLvl2      []string                 `json:"biblical_ref_lvl2"`
	EditionLink          string                   `json:"edition_link"`
	TransmissionGraph    *graph.TransmissionGraph `json:"transmissionGraph,omitempty"`
}

func (p *Passage) navItem() NavItem          { return NavItem{ID: p.JadID, Label: p.Passage} }
func (p *Passage) setNav(prev, next NavItem) { p.Prev, p.Next = prev, next }

// ResolveWorkDates returns shallow copies of passages whose work links
// carry resolved dates. The graph nodes read their date from there.
func ResolveWorkDates(passages []*common.Passage, dates DateIndex) []*common.Passage {
	out := make([]*common.Passage, 0, len(passages))
	for _, p := range passages {
		if p == nil {
			continue
		}
		cp := *p
		cp.Work = make([]common.WorkRef, len(p.Work))
		for i, w := range p.Work {
			if len(w.Date) > 0 {
				w.Date = dates.Resolve(w.Date)
			}
			cp.Work[i] = w
		}
		out = append(out, &cp)
	}
	return out
}

func sourceSummaries(p *common.Passage, repo *graph.Repository) []SourceSummary {
	out := make([]SourceSummary, 0, len(p.SourcePassages))
	for _, ref := range p.SourcePassages {
		src, ok := repo.Get(ref.ID)
		if !ok {
			continue
		}
		work := src.FirstWork()
		author := ""
		if len(work.Author) > 0 {
			author = work.Author[0].DisplayName()
		}
		out = append(out, SourceSummary{
			ID:             src.ID,
			JadID:          src.JadID,
			Title:          string(work.Title),
			Author:         author,
			PositionInWork: string(src.PositionInWork),
			Passage:        string(src.Passage),
		})
	}
	return out
}

// Passages builds the published passage records. Passages without text are
// dropped. Each record embeds its first work, its manuscript occurrences
// and, when graphs has one, its transmission graph.
func Passages(
	repo *graph.Repository,
	works []*Work,
	manuscripts ManuscriptIndex,
	refs map[string]BiblicalReference,
	graphs map[int]*graph.TransmissionGraph,
) []*Passage {
	worksByID := make(map[int]*Work, len(works))
	for _, w := range works {
		worksByID[w.ID] = w
	}

	out := make([]*Passage, 0, repo.Len())
	for _, p := range repo.All() {
		if p.Passage == "" {
			continue
		}

		facets := BiblicalFacets(p.BiblicalReferences)

		bibl := make([]BiblicalReference, 0, len(p.BiblicalReferences))
		for _, r := range p.BiblicalReferences {
			if enriched, ok := refs[strconv.Itoa(r.ID)]; ok {
				bibl = append(bibl, enriched)
			}
		}

		var pages *string
		if m := rePassagePage.FindStringSubmatch(string(p.TextParagraph)); m != nil {
			page := m[1]
			pages = &page
		}

		embedded := []*Work{}
		if w, ok := worksByID[p.FirstWork().ID]; ok && len(p.Work) > 0 {
			embedded = append(embedded, w)
		}

		out = append(out, &Passage{
			ID:                   p.ID,
			JadID:                p.JadID,
			Passage:              string(p.Passage),
			Work:                 embedded,
			PositionInWork:       string(p.PositionInWork),
			Pages:                pages,
			Note:                 p.Note,
			ExplicitContempRef:   p.ExplicitContempRef,
			BiblicalReferences:   bibl,
			Keywords:             p.Keywords,
			PartOfCluster:        p.PartOfCluster,
			LiturgicalReferences: p.LiturgicalReferences,
			OccurrenceFoundIn:    emptyArray(stripOrder(p.OccurrenceFoundIn)),
			MssOccurrences:       manuscripts.Occurrences(p.ID),
			SourcePassage:        sourceSummaries(p, repo),
			Incipit:              p.Incipit,
			TextParagraph:        util.NormalizeText(string(p.TextParagraph)),
			BiblicalRefLvl0:      facets.Lvl0,
			BiblicalRefLvl1:      facets.Lvl1,
			BiblicalRefLvl2:      facets.Lvl2,
			EditionLink:          string(p.EditionLink),
			TransmissionGraph:    graphs[p.ID],
		})
	}
	addPrevNext(out)
	return out
}
