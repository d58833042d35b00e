package enrich

import (
	"encoding/json"
	"strings"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
)

// PlaceLink is a place link resolved against places.json.
type PlaceLink struct {
	ID          int    `json:"id"`
	Value       string `json:"value"`
	JadID       string `json:"jad_id"`
	GeonamesURL string `json:"geonames_url"`
	Lat         string `json:"lat"`
	Long        string `json:"long"`
}

// LibraryLink is a library link resolved against libraries.json, with its
// places resolved in turn.
type LibraryLink struct {
	ID    int         `json:"id"`
	Value string      `json:"value"`
	JadID string      `json:"jad_id"`
	Place []PlaceLink `json:"place"`
}

// ManuscriptLink names a manuscript as "<place>, <shelfmark>".
type ManuscriptLink struct {
	ID    int    `json:"id"`
	JadID string `json:"jad_id"`
	Name  string `json:"name"`
}

// MsOccurrence summarises where a passage is found in manuscripts.
type MsOccurrence struct {
	Manuscript        string          `json:"manuscript"`
	ManuscriptJadID   string          `json:"manuscript_jad_id"`
	PositionInMs      json.RawMessage `json:"position_in_ms,omitempty"`
	MainMs            json.RawMessage `json:"main_ms,omitempty"`
	FacsimilePosition json.RawMessage `json:"facsimile_position,omitempty"`
	MsLocus           string          `json:"ms_locus"`
}

// RelatedOccurrence is a passage found in a manuscript. Passages is nil
// when the occurrence points at a passage that was not published.
type RelatedOccurrence struct {
	Passages          *Passage        `json:"passages"`
	PositionInMs      json.RawMessage `json:"position_in_ms,omitempty"`
	MainMs            json.RawMessage `json:"main_ms,omitempty"`
	FacsimilePosition json.RawMessage `json:"facsimile_position,omitempty"`
}

// Manuscript is a row of the published manuscripts.json.
type Manuscript struct {
	ID                   int                 `json:"id"`
	JadID                string              `json:"jad_id"`
	Name                 json.RawMessage     `json:"name"`
	Library              []LibraryLink       `json:"library"`
	Idno                 json.RawMessage     `json:"idno,omitempty"`
	CatalogURL           json.RawMessage     `json:"catalog_url,omitempty"`
	DigiURL              json.RawMessage     `json:"digi_url,omitempty"`
	InstitutionalContext json.RawMessage     `json:"institutional_context"`
	Format               json.RawMessage     `json:"format,omitempty"`
	DateWritten          []common.DateRef    `json:"date_written"`
	RelatedOccurrences   []RelatedOccurrence `json:"related_occurrences"`

	displayName string
}

// Link returns the short form embedded in works and passages.
func (m *Manuscript) Link() ManuscriptLink {
	return ManuscriptLink{ID: m.ID, JadID: m.JadID, Name: m.displayName}
}

// PlaceIndex resolves place links against places.json.
type PlaceIndex map[int]*common.Place

func NewPlaceIndex(places []*common.Place) PlaceIndex {
	idx := make(PlaceIndex, len(places))
	for _, p := range places {
		if p != nil {
			idx[p.ID] = p
		}
	}
	return idx
}

// Resolve returns the places of refs. Links without a matching row keep id
// and value only.
func (idx PlaceIndex) Resolve(refs []common.Ref) []PlaceLink {
	out := make([]PlaceLink, 0, len(refs))
	for _, ref := range refs {
		link := PlaceLink{ID: ref.ID, Value: string(ref.Value)}
		if p, ok := idx[ref.ID]; ok {
			if link.Value == "" {
				link.Value = string(p.Name)
			}
			link.JadID = p.JadID
			link.GeonamesURL = string(p.GeonamesURL)
			link.Lat = string(p.Lat)
			link.Long = string(p.Long)
		}
		out = append(out, link)
	}
	return out
}

// LibraryIndex resolves library links against libraries.json.
type LibraryIndex struct {
	libraries map[int]*common.Library
	places    PlaceIndex
}

func NewLibraryIndex(libraries []*common.Library, places PlaceIndex) LibraryIndex {
	idx := LibraryIndex{libraries: make(map[int]*common.Library, len(libraries)), places: places}
	for _, l := range libraries {
		if l != nil {
			idx.libraries[l.ID] = l
		}
	}
	return idx
}

func (idx LibraryIndex) Resolve(refs []common.Ref) []LibraryLink {
	out := make([]LibraryLink, 0, len(refs))
	for _, ref := range refs {
		link := LibraryLink{ID: ref.ID, Value: string(ref.Value), Place: []PlaceLink{}}
		if l, ok := idx.libraries[ref.ID]; ok {
			if link.Value == "" {
				link.Value = string(l.Name)
			}
			link.JadID = l.JadID
			link.Place = idx.places.Resolve(l.Place)
		}
		out = append(out, link)
	}
	return out
}

// manuscriptName prefixes the shelfmark with the place of the first
// library, e.g. "Munich, Clm 14096".
func manuscriptName(name string, libraries []LibraryLink) string {
	if len(libraries) == 0 || len(libraries[0].Place) == 0 || libraries[0].Place[0].Value == "" {
		return name
	}
	return libraries[0].Place[0].Value + ", " + name
}

// Manuscripts builds the published manuscript records without their
// occurrences. Manuscripts without a name are dropped.
func Manuscripts(manuscripts []*common.Manuscript, libraries LibraryIndex, dates DateIndex) []*Manuscript {
	out := make([]*Manuscript, 0, len(manuscripts))
	for _, m := range manuscripts {
		if m == nil {
			continue
		}
		name := m.DisplayName()
		if name == "" {
			continue
		}
		libs := libraries.Resolve(m.Library)
		out = append(out, &Manuscript{
			ID:                   m.ID,
			JadID:                m.JadID,
			Name:                 m.Name,
			Library:              libs,
			Idno:                 m.Idno,
			CatalogURL:           m.CatalogURL,
			DigiURL:              m.DigiURL,
			InstitutionalContext: emptyArray(stripOrder(m.InstitutionalContext)),
			Format:               m.Format,
			DateWritten:          dates.Resolve(m.DateWritten),
			RelatedOccurrences:   []RelatedOccurrence{},
			displayName:          manuscriptName(name, libs),
		})
	}
	return out
}

// ManuscriptIndex looks manuscripts up by id and groups manuscript
// occurrences by passage.
type ManuscriptIndex struct {
	byID      map[int]*Manuscript
	byPassage map[int][]*common.MsOccurrence
}

func NewManuscriptIndex(manuscripts []*Manuscript, occurrences []*common.MsOccurrence) ManuscriptIndex {
	idx := ManuscriptIndex{
		byID:      make(map[int]*Manuscript, len(manuscripts)),
		byPassage: make(map[int][]*common.MsOccurrence),
	}
	for _, m := range manuscripts {
		idx.byID[m.ID] = m
	}
	for _, o := range occurrences {
		if o == nil || len(o.Occurrence) == 0 {
			continue
		}
		id := o.Occurrence[0].ID
		idx.byPassage[id] = append(idx.byPassage[id], o)
	}
	return idx
}

// Links returns the manuscripts named by refs, skipping unknown ones.
func (idx ManuscriptIndex) Links(refs []common.Ref) []ManuscriptLink {
	out := []ManuscriptLink{}
	for _, ref := range refs {
		if m, ok := idx.byID[ref.ID]; ok {
			out = append(out, m.Link())
		}
	}
	return out
}

// Occurrences summarises the manuscript occurrences of one passage. An
// occurrence whose manuscripts are all unknown is labelled "TBD".
func (idx ManuscriptIndex) Occurrences(passageID int) []MsOccurrence {
	occ := idx.byPassage[passageID]
	out := make([]MsOccurrence, 0, len(occ))
	for _, o := range occ {
		links := idx.Links(o.Manuscript)
		names := make([]string, 0, len(links))
		jadIDs := make([]string, 0, len(links))
		for _, l := range links {
			names = append(names, l.Name)
			jadIDs = append(jadIDs, l.JadID)
		}
		label := strings.Join(names, ", ")
		if label == "" {
			label = "TBD"
		}
		locus := ""
		if len(o.MsLocus) > 0 {
			locus = string(o.MsLocus[0].Value)
		}
		out = append(out, MsOccurrence{
			Manuscript:        label,
			ManuscriptJadID:   strings.Join(jadIDs, ", "),
			PositionInMs:      o.PositionInMs,
			MainMs:            o.MainMs,
			FacsimilePosition: o.FacsimilePosition,
			MsLocus:           locus,
		})
	}
	return out
}

// AttachOccurrences fills RelatedOccurrences of every manuscript from the
// occurrences whose first manuscript it is. The embedded passages carry no
// transmission graph.
func AttachOccurrences(manuscripts []*Manuscript, occurrences []*common.MsOccurrence, passages []*Passage) {
	byID := make(map[int]*Passage, len(passages))
	for _, p := range passages {
		cp := *p
		cp.TransmissionGraph = nil
		byID[p.ID] = &cp
	}
	byManuscript := make(map[int][]*common.MsOccurrence)
	for _, o := range occurrences {
		if o == nil || len(o.Manuscript) == 0 {
			continue
		}
		id := o.Manuscript[0].ID
		byManuscript[id] = append(byManuscript[id], o)
	}

	for _, m := range manuscripts {
		for _, o := range byManuscript[m.ID] {
			var p *Passage
			if len(o.Occurrence) > 0 {
				p = byID[o.Occurrence[0].ID]
			}
			m.RelatedOccurrences = append(m.RelatedOccurrences, RelatedOccurrence{
				Passages:          p,
				PositionInMs:      o.PositionInMs,
				MainMs:            o.MainMs,
				FacsimilePosition: o.FacsimilePosition,
			})
		}
	}
}
