package enrich

import (
	"encoding/json"
	"regexp"
	"sort"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/sortkey"
)

var reWorkPage = regexp.MustCompile(` p\. (\d+\w?)`)

type GroupedPassage struct {
	ID                int      `json:"id"`
	JadID             string   `json:"jad_id"`
	Passage           string   `json:"passage"`
	Page              string   `json:"page"`
	OccurrenceFoundIn []string `json:"occurrence_found_in"`
}

// PassageGroup collects the passages found at one position of a work.
type PassageGroup struct {
	PositionInWork string           `json:"position_in_work"`
	SortPosition   int              `json:"sort_position"`
	Passages       []GroupedPassage `json:"passages"`
}

// Work is a row of the published works.json.
type Work struct {
	ID                   int              `json:"id"`
	JadID                string           `json:"jad_id"`
	Title                string           `json:"title"`
	Author               []*Author        `json:"author"`
	AuthorCertainty      json.RawMessage  `json:"author_certainty,omitempty"`
	Manuscripts          []ManuscriptLink `json:"manuscripts"`
	Genre                string           `json:"genre"`
	Description          json.RawMessage  `json:"description,omitempty"`
	Notes                string           `json:"notes"`
	NotesAuthor          string           `json:"notes__author"`
	InstitutionalContext json.RawMessage  `json:"institutional_context"`
	PublishedEdition     json.RawMessage  `json:"published_edition"`
	Date                 []common.DateRef `json:"date"`
	DateCertainty        json.RawMessage  `json:"date_certainty,omitempty"`
	LinkDigitalEditions  string           `json:"link_digital_editions"`
	Incipit              string           `json:"incipit"`
	VolumeEditor         string           `json:"volume_edition_or_individual_editor"`
	OtherEditions        string           `json:"other_editions"`
	RelatedPassages      []PassageGroup   `json:"related__passages"`
	ViewLabel            string           `json:"view_label"`
	Prev                 NavItem          `json:"prev"`
	Next                 NavItem          `json:"next"`
}

func (w *Work) navItem() NavItem          { return NavItem{ID: w.JadID, Label: w.Title} }
func (w *Work) setNav(prev, next NavItem) { w.Prev, w.Next = prev, next }

// groupPassages groups the passages of one work by position label and
// orders the groups by sortkey.WorkPosition. Groups with equal keys keep
// their first-seen order.
func groupPassages(passages []*common.Passage) []PassageGroup {
	var groups []PassageGroup
	at := make(map[string]int)
	for _, p := range passages {
		key := string(p.PositionInWork)
		i, ok := at[key]
		if !ok {
			i = len(groups)
			at[key] = i
			groups = append(groups, PassageGroup{
				PositionInWork: key,
				SortPosition:   sortkey.WorkPosition(key),
			})
		}
		page := ""
		if m := reWorkPage.FindStringSubmatch(string(p.TextParagraph)); m != nil {
			page = m[1]
		}
		groups[i].Passages = append(groups[i].Passages, GroupedPassage{
			ID:                p.ID,
			JadID:             p.JadID,
			Passage:           string(p.Passage),
			Page:              page,
			OccurrenceFoundIn: linkValues(p.OccurrenceFoundIn),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].SortPosition < groups[j].SortPosition
	})
	if groups == nil {
		groups = []PassageGroup{}
	}
	return groups
}

// Works builds the published work records. Works without a title are
// dropped. Authors are the already enriched records, in author order.
func Works(works []*common.Work, passages []*common.Passage, authors []*Author, manuscripts ManuscriptIndex, dates DateIndex) []*Work {
	passagesByWork := make(map[int][]*common.Passage)
	for _, p := range passages {
		seen := make(map[int]bool, len(p.Work))
		for _, w := range p.Work {
			if seen[w.ID] {
				continue
			}
			seen[w.ID] = true
			passagesByWork[w.ID] = append(passagesByWork[w.ID], p)
		}
	}

	out := make([]*Work, 0, len(works))
	for _, w := range works {
		if w == nil || w.Title == "" {
			continue
		}
		authorIDs := make(map[int]bool, len(w.Author))
		for _, a := range w.Author {
			authorIDs[a.ID] = true
		}
		related := []*Author{}
		for _, a := range authors {
			if authorIDs[a.ID] {
				related = append(related, a)
			}
		}

		out = append(out, &Work{
			ID:                   w.ID,
			JadID:                w.JadID,
			Title:                string(w.Title),
			Author:               related,
			AuthorCertainty:      w.AuthorCertainty,
			Manuscripts:          manuscripts.Links(w.Manuscripts),
			Genre:                string(w.Genre),
			Description:          w.Description,
			Notes:                string(w.Notes),
			NotesAuthor:          string(w.NotesAuthor),
			InstitutionalContext: emptyArray(stripOrder(w.InstitutionalContext)),
			PublishedEdition:     emptyArray(stripOrder(w.PublishedEdition)),
			Date:                 dates.Resolve(w.Date),
			DateCertainty:        w.DateCertainty,
			LinkDigitalEditions:  string(w.LinkDigitalEditions),
			Incipit:              string(w.Incipit),
			VolumeEditor:         string(w.VolumeEditor),
			OtherEditions:        string(w.OtherEditions),
			RelatedPassages:      groupPassages(passagesByWork[w.ID]),
			ViewLabel:            string(w.ViewLabel),
		})
	}
	addPrevNext(out)
	return out
}
