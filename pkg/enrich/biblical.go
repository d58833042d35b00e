package enrich

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/sortkey"
)

// BiblicalReference is a row of the published biblical_references.json.
type BiblicalReference struct {
	ID             int    `json:"id"`
	JadID          string `json:"jad_id"`
	Value          string `json:"value"`
	Text           string `json:"text"`
	NovaVulgataURL string `json:"nova_vulgata_url"`
	Key            int    `json:"key"`
}

// BiblicalReferences keys every named reference by its id and attaches its
// canonical sort key.
func BiblicalReferences(refs []*common.BiblicalReference) map[string]BiblicalReference {
	out := make(map[string]BiblicalReference, len(refs))
	for _, r := range refs {
		if r == nil || r.Name == "" {
			continue
		}
		out[strconv.Itoa(r.ID)] = BiblicalReference{
			ID:             r.ID,
			JadID:          r.JadID,
			Value:          r.Name.Trimmed(),
			Text:           string(r.Text),
			NovaVulgataURL: string(r.NovaVulgataURL),
			Key:            sortkey.Biblical(string(r.Name)),
		}
	}
	return out
}

var (
	reFacetSplit = regexp.MustCompile(`[\s.,]`)
	// books whose reference is written without a dot after the name
	facetSpecialBooks = map[string]bool{"Joel": true, "Acts": true, "Job": true, "Osee": true, "Amos": true, "Ruth": true}
)

// Facets is the three-level hierarchy of biblical references used by the
// search index: book, book > chapter, book > chapter > verse.
type Facets struct {
	Lvl0 []string
	Lvl1 []string
	Lvl2 []string
}

// BiblicalFacets derives the facet hierarchy from the values of a
// passage's reference links.
func BiblicalFacets(refs []common.Ref) Facets {
	f := Facets{Lvl0: []string{}, Lvl1: []string{}, Lvl2: []string{}}
	if len(refs) == 0 || refs[0].Value == "" {
		return f
	}
	for _, ref := range refs {
		value := string(ref.Value)
		var abbrev, chapterVerse string
		if first := reFacetSplit.Split(value, 2)[0]; facetSpecialBooks[first] {
			abbrev = first
			chapterVerse = strings.TrimSpace(value[len(first):])
		} else {
			parts := strings.Split(value, ".")
			abbrev = parts[0]
			if len(parts) > 1 {
				chapterVerse = parts[1]
			}
		}
		book := sortkey.BookName(strings.TrimSpace(abbrev))

		chapter, verse := chapterVerse, ""
		if strings.Contains(chapterVerse, ",") {
			parts := strings.Split(chapterVerse, ",")
			chapter, verse = parts[0], parts[1]
		}
		chapter = strings.TrimSpace(chapter)
		verse = strings.TrimSpace(verse)

		f.Lvl0 = append(f.Lvl0, book)
		f.Lvl1 = append(f.Lvl1, book+" > "+book+" "+chapter)
		f.Lvl2 = append(f.Lvl2, book+" > "+chapter+" > "+verse)
	}
	return f
}
