// Package common holds the record types shared by the loaders, the graph
// builder and the enrichment joins.
//
// The dataset is a dump of a Baserow database. Link fields are arrays of
// {id, value} objects, scalar fields are usually strings but sometimes
// numbers or null, and several fields are passed through untouched.
package common

import "encoding/json"

// Ref is a Baserow link to another row.
type Ref struct {
	ID    int  `json:"id"`
	Value Text `json:"value,omitempty"`
}

// AuthorRef is an author link as embedded in work and passage rows.
type AuthorRef struct {
	ID    int  `json:"id"`
	Name  Text `json:"name,omitempty"`
	Value Text `json:"value,omitempty"`
}

// DisplayName returns Name, falling back to the link value.
func (a AuthorRef) DisplayName() string {
	if a.Name != "" {
		return string(a.Name)
	}
	return string(a.Value)
}

// DateRef is a date link. After enrichment it carries the resolved range.
type DateRef struct {
	ID        int      `json:"id"`
	Value     Text     `json:"value,omitempty"`
	ViewLabel Text     `json:"view_label,omitempty"`
	Range     string   `json:"range,omitempty"`
	NotBefore Year     `json:"not_before,omitempty"`
	NotAfter  Year     `json:"not_after,omitempty"`
	Century   []string `json:"century,omitempty"`
}

// WorkRef is a work link as embedded in a passage row.
type WorkRef struct {
	ID     int         `json:"id"`
	Title  Text        `json:"title,omitempty"`
	Name   Text        `json:"name,omitempty"`
	Value  Text        `json:"value,omitempty"`
	Author []AuthorRef `json:"author,omitempty"`
	Date   []DateRef   `json:"date,omitempty"`
}

// DisplayTitle returns the first non-empty of Title, Name and Value.
func (w WorkRef) DisplayTitle() string {
	switch {
	case w.Title != "":
		return string(w.Title)
	case w.Name != "":
		return string(w.Name)
	default:
		return string(w.Value)
	}
}

// Passage is one occurrence of a text passage in a work.
type Passage struct {
	ID                   int             `json:"id"`
	JadID                string          `json:"jad_id"`
	Passage              Text            `json:"passage"`
	Work                 []WorkRef       `json:"work"`
	PositionInWork       Text            `json:"position_in_work"`
	TextParagraph        Text            `json:"text_paragraph"`
	Note                 json.RawMessage `json:"note,omitempty"`
	Incipit              json.RawMessage `json:"incipit,omitempty"`
	ExplicitContempRef   json.RawMessage `json:"explicit_contemp_ref,omitempty"`
	EditionLink          Text            `json:"edition_link"`
	BiblicalReferences   []Ref           `json:"biblical_references"`
	SourcePassages       []Ref           `json:"source_passage"`
	Keywords             json.RawMessage `json:"keywords,omitempty"`
	PartOfCluster        json.RawMessage `json:"part_of_cluster,omitempty"`
	LiturgicalReferences json.RawMessage `json:"liturgical_references,omitempty"`
	OccurrenceFoundIn    json.RawMessage `json:"occurrence_found_in,omitempty"`
}

// UnmarshalJSON accepts the source list under either source_passage or
// sourcePassages. The snake_case key wins when both are present.
func (p *Passage) UnmarshalJSON(data []byte) error {
	type plain Passage
	var aux struct {
		plain
		SourcePassagesAlt []Ref `json:"sourcePassages"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Passage(aux.plain)
	if p.SourcePassages == nil && aux.SourcePassagesAlt != nil {
		p.SourcePassages = aux.SourcePassagesAlt
	}
	return nil
}

// FirstWork returns the first linked work, or a zero WorkRef.
func (p *Passage) FirstWork() WorkRef {
	if len(p.Work) == 0 {
		return WorkRef{}
	}
	return p.Work[0]
}

// Work is a row of works.json.
type Work struct {
	ID                   int             `json:"id"`
	JadID                string          `json:"jad_id"`
	Title                Text            `json:"title"`
	Author               []Ref           `json:"author"`
	AuthorCertainty      json.RawMessage `json:"author_certainty,omitempty"`
	Genre                Text            `json:"genre"`
	Description          json.RawMessage `json:"description,omitempty"`
	Notes                Text            `json:"notes"`
	NotesAuthor          Text            `json:"notes__author"`
	InstitutionalContext json.RawMessage `json:"institutional_context,omitempty"`
	PublishedEdition     json.RawMessage `json:"published_edition,omitempty"`
	Date                 []DateRef       `json:"date"`
	DateCertainty        json.RawMessage `json:"date_certainty,omitempty"`
	LinkDigitalEditions  Text            `json:"link_digital_editions"`
	Incipit              Text            `json:"incipit"`
	VolumeEditor         Text            `json:"volume_edition_or_individual_editor"`
	OtherEditions        Text            `json:"other_editions"`
	ViewLabel            Text            `json:"view_label"`
	Manuscripts          []Ref           `json:"manuscripts"`
}

// Author is a row of authors.json.
type Author struct {
	ID          int    `json:"id"`
	JadID       string `json:"jad_id"`
	Name        Text   `json:"name"`
	AltName     Text   `json:"alt_name"`
	DateOfBirth Text   `json:"date_of_birth"`
	DateOfDeath Text   `json:"date_of_death"`
	Notes       Text   `json:"notes"`
	GndURL      Text   `json:"gnd_url"`
	Place       []Ref  `json:"place"`
}

// DateRecord is a row of date.json.
type DateRecord struct {
	ID        int  `json:"id"`
	Value     Text `json:"value"`
	NotBefore Year `json:"not_before"`
	NotAfter  Year `json:"not_after"`
}

// BiblicalReference is a row of biblical_references.json.
type BiblicalReference struct {
	ID             int    `json:"id"`
	JadID          string `json:"jad_id"`
	Name           Text   `json:"name"`
	Text           Text   `json:"text"`
	NovaVulgataURL Text   `json:"nova_vulgata_url"`
}

// Manuscript is a row of manuscripts.json. Name is a link array in the
// dump and is published unchanged.
type Manuscript struct {
	ID                   int             `json:"id"`
	JadID                string          `json:"jad_id"`
	Name                 json.RawMessage `json:"name"`
	Library              []Ref           `json:"library"`
	Idno                 json.RawMessage `json:"idno,omitempty"`
	CatalogURL           json.RawMessage `json:"catalog_url,omitempty"`
	DigiURL              json.RawMessage `json:"digi_url,omitempty"`
	InstitutionalContext json.RawMessage `json:"institutional_context,omitempty"`
	Format               json.RawMessage `json:"format,omitempty"`
	DateWritten          []DateRef       `json:"date_written"`
}

// DisplayName returns the first value of the name links.
func (m *Manuscript) DisplayName() string {
	return FirstText(m.Name)
}

// MsOccurrence is a row of ms_occurrences.json: one passage found in one
// manuscript.
type MsOccurrence struct {
	ID                int             `json:"id"`
	Occurrence        []Ref           `json:"occurrence"`
	Manuscript        []Ref           `json:"manuscript"`
	PositionInMs      json.RawMessage `json:"position_in_ms,omitempty"`
	MainMs            json.RawMessage `json:"main_ms,omitempty"`
	FacsimilePosition json.RawMessage `json:"facsimile_position,omitempty"`
	MsLocus           []Ref           `json:"ms_locus"`
}

// Library is a row of libraries.json.
type Library struct {
	ID    int    `json:"id"`
	JadID string `json:"jad_id"`
	Name  Text   `json:"name"`
	Place []Ref  `json:"place"`
}

// Place is a row of places.json.
type Place struct {
	ID          int    `json:"id"`
	JadID       string `json:"jad_id"`
	Name        Text   `json:"name"`
	GeonamesURL Text   `json:"geonames_url"`
	Lat         Text   `json:"lat"`
	Long        Text   `json:"long"`
}

// Dataset bundles every input table of one build.
type Dataset struct {
	Passages           []*Passage
	Works              []*Work
	Authors            []*Author
	Dates              []*DateRecord
	BiblicalReferences []*BiblicalReference
	Manuscripts        []*Manuscript
	MsOccurrences      []*MsOccurrence
	Libraries          []*Library
	Places             []*Place
}
