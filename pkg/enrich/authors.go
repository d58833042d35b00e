package enrich

import (
	"strings"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
)

type OrigDate struct {
	NotBefore string `json:"not_before"`
	NotAfter  string `json:"not_after"`
	Range     string `json:"range"`
}

type WorkLink struct {
	Title string `json:"title"`
	ID    int    `json:"id"`
}

// Author is a row of the published authors.json.
type Author struct {
	ID          int         `json:"id"`
	JadID       string      `json:"jad_id"`
	Name        string      `json:"name"`
	DateOfBirth string      `json:"date_of_birth"`
	DateOfDeath string      `json:"date_of_death"`
	OrigDates   []OrigDate  `json:"origDates"`
	AltName     string      `json:"alt_name"`
	Notes       string      `json:"notes"`
	GndURL      string      `json:"gnd_url"`
	Place       []PlaceLink `json:"place"`
	Works       []WorkLink  `json:"works"`
	Prev        NavItem     `json:"prev"`
	Next        NavItem     `json:"next"`
}

func (a *Author) navItem() NavItem          { return NavItem{ID: a.JadID, Label: a.Name} }
func (a *Author) setNav(prev, next NavItem) { a.Prev, a.Next = prev, next }

// AuthorsMapKey normalises an author name for search lookups.
func AuthorsMapKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", " ")
}

// Authors builds the published author records and the search-name map.
// Authors without a name are dropped. Places are resolved against places.
func Authors(authors []*common.Author, works []*common.Work, places PlaceIndex) ([]*Author, map[string]string) {
	byAuthor := make(map[int][]WorkLink)
	for _, w := range works {
		if w == nil {
			continue
		}
		for _, a := range w.Author {
			byAuthor[a.ID] = append(byAuthor[a.ID], WorkLink{Title: string(w.Title), ID: w.ID})
		}
	}

	names := make(map[string]string, len(authors))
	out := make([]*Author, 0, len(authors))
	for _, a := range authors {
		if a == nil || a.Name == "" {
			continue
		}
		names[AuthorsMapKey(string(a.Name))] = string(a.Name)

		birth, death := string(a.DateOfBirth), string(a.DateOfDeath)
		rng := ""
		if birth != "" || death != "" {
			rng = birth + "-" + death
		}
		related := byAuthor[a.ID]
		if related == nil {
			related = []WorkLink{}
		}
		out = append(out, &Author{
			ID:          a.ID,
			JadID:       a.JadID,
			Name:        strings.Replace(string(a.Name), ",", "", 1),
			DateOfBirth: birth,
			DateOfDeath: death,
			OrigDates:   []OrigDate{{NotBefore: birth, NotAfter: death, Range: rng}},
			AltName:     strings.Replace(string(a.AltName), ",", "", 1),
			Notes:       string(a.Notes),
			GndURL:      string(a.GndURL),
			Place:       places.Resolve(a.Place),
			Works:       related,
		})
	}
	addPrevNext(out)
	return out, names
}
