package enrich

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
)

func TestCentury(t *testing.T) {
	cases := map[int]string{
		0:    "N/A",
		70:   "1st cen.",
		150:  "2nd cen.",
		250:  "3rd cen.",
		1050: "11th cen.",
		1150: "12th cen.",
		1250: "13th cen.",
		1600: "17th cen.",
	}
	for year, want := range cases {
		assert.Equal(t, want, Century(year), "year %d", year)
	}
}

func TestDateIndexResolve(t *testing.T) {
	idx := NewDateIndex([]*common.DateRecord{
		{ID: 1, Value: "1150-1199", NotBefore: 1150, NotAfter: 1199},
		{ID: 2, NotAfter: 1250},
	})

	got := idx.Resolve([]common.DateRef{
		{ID: 1, Value: "12th c."},
		{ID: 2},
		{ID: 9, ViewLabel: "unknown"},
	})
	require.Len(t, got, 3)

	assert.Equal(t, "1150-1199", got[0].Range)
	assert.Equal(t, common.Year(1150), got[0].NotBefore)
	assert.Equal(t, []string{"12th cen."}, got[0].Century)

	assert.Equal(t, "0-1250", got[1].Range)
	assert.Equal(t, common.Year(defaultNotBefore), got[1].NotBefore)
	assert.Equal(t, []string{"N/A", "13th cen."}, got[1].Century)

	assert.Equal(t, common.DateRef{ID: 9, ViewLabel: "unknown"}, got[2])
}

func TestAuthors(t *testing.T) {
	authors := []*common.Author{
		{ID: 1, JadID: "jad_author_1", Name: "Beda, Venerabilis", DateOfBirth: "673", DateOfDeath: "735", Place: []common.Ref{{ID: 7}}},
		{ID: 2, JadID: "jad_author_2", Name: ""},
		{ID: 3, JadID: "jad_author_3", Name: "Pseudo-Augustinus"},
	}
	works := []*common.Work{
		{ID: 10, Title: "De temporibus", Author: []common.Ref{{ID: 1}}},
		{ID: 11, Title: "Sermo", Author: []common.Ref{{ID: 3}}},
	}

	places := NewPlaceIndex([]*common.Place{
		{ID: 7, JadID: "jad_place_7", Name: "Jarrow", GeonamesURL: "https://www.geonames.org/2646012", Lat: "54.98", Long: "-1.48"},
	})

	out, names := Authors(authors, works, places)
	require.Len(t, out, 2)

	assert.Equal(t, "Beda Venerabilis", out[0].Name)
	assert.Equal(t, []OrigDate{{NotBefore: "673", NotAfter: "735", Range: "673-735"}}, out[0].OrigDates)
	assert.Equal(t, []WorkLink{{Title: "De temporibus", ID: 10}}, out[0].Works)
	assert.Equal(t, NavItem{}, out[0].Prev)
	assert.Equal(t, NavItem{ID: "jad_author_3", Label: "Pseudo-Augustinus"}, out[0].Next)
	assert.Equal(t, NavItem{ID: "jad_author_1", Label: "Beda Venerabilis"}, out[1].Prev)
	assert.Equal(t, "", out[1].OrigDates[0].Range)
	assert.Equal(t, []PlaceLink{{
		ID: 7, Value: "Jarrow", JadID: "jad_place_7",
		GeonamesURL: "https://www.geonames.org/2646012", Lat: "54.98", Long: "-1.48",
	}}, out[0].Place)
	assert.Equal(t, []PlaceLink{}, out[1].Place)

	assert.Equal(t, map[string]string{
		"beda, venerabilis": "Beda, Venerabilis",
		"pseudo augustinus": "Pseudo-Augustinus",
	}, names)
}

func TestNavItemMarshalsEmpty(t *testing.T) {
	b, err := json.Marshal(NavItem{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestBiblicalFacets(t *testing.T) {
	f := BiblicalFacets([]common.Ref{{ID: 1, Value: "Gen.1,1"}, {ID: 2, Value: "Job 3,4"}})

	assert.Equal(t, []string{"Genesis", "Job"}, f.Lvl0)
	assert.Equal(t, []string{"Genesis > Genesis 1", "Job > Job 3"}, f.Lvl1)
	assert.Equal(t, []string{"Genesis > 1 > 1", "Job > 3 > 4"}, f.Lvl2)

	empty := BiblicalFacets(nil)
	assert.Empty(t, empty.Lvl0)
	assert.NotNil(t, empty.Lvl0)
}

func TestBiblicalReferences(t *testing.T) {
	refs := BiblicalReferences([]*common.BiblicalReference{
		{ID: 5, JadID: "jad_bibl_5", Name: " Mt.5,3 "},
		{ID: 6, Name: ""},
	})
	require.Len(t, refs, 1)
	assert.Equal(t, "Mt.5,3", refs["5"].Value)
	assert.Equal(t, 49005003, refs["5"].Key)
}

func TestStripOrder(t *testing.T) {
	got := stripOrder(json.RawMessage(`[{"id":1,"value":"a","order":"1.0"}]`))
	assert.JSONEq(t, `[{"id":1,"value":"a"}]`, string(got))

	assert.JSONEq(t, `"plain"`, string(stripOrder(json.RawMessage(`"plain"`))))
	assert.JSONEq(t, `[]`, string(emptyArray(nil)))
	assert.JSONEq(t, `[]`, string(emptyArray(json.RawMessage(`null`))))
}

func testDataset() *common.Dataset {
	work := common.WorkRef{
		ID:     10,
		Title:  "Historia",
		Author: []common.AuthorRef{{ID: 1, Name: "Orosius"}},
		Date:   []common.DateRef{{ID: 100}},
	}
	return &common.Dataset{
		Passages: []*common.Passage{
			{
				ID: 1, JadID: "jad_occurrence_1", Passage: "Vespasianus", Work: []common.WorkRef{work},
				PositionInWork: "B7, Ch9", TextParagraph: "cf. p. 12a  of the\n edition",
				BiblicalReferences: []common.Ref{{ID: 5, Value: "Mt.5,3"}, {ID: 99, Value: "Gen.1,1"}},
				OccurrenceFoundIn:  json.RawMessage(`[{"id":3,"value":"MS A","order":"1"}]`),
			},
			{
				ID: 2, JadID: "jad_occurrence_2", Passage: "Titus", Work: []common.WorkRef{work},
				PositionInWork: "B7, Ch3",
				SourcePassages: []common.Ref{{ID: 1}, {ID: 404}},
			},
			{ID: 3, JadID: "jad_occurrence_3", Passage: "", Work: []common.WorkRef{work}},
		},
		Works: []*common.Work{
			{
				ID: 10, JadID: "jad_work_10", Title: "Historia", Author: []common.Ref{{ID: 1}}, Date: []common.DateRef{{ID: 100}},
				Manuscripts: []common.Ref{{ID: 20}, {ID: 22}},
			},
			{ID: 11, JadID: "jad_work_11", Title: ""},
		},
		Authors: []*common.Author{{ID: 1, JadID: "jad_author_1", Name: "Orosius"}},
		Dates:   []*common.DateRecord{{ID: 100, NotBefore: 410, NotAfter: 420}},
		BiblicalReferences: []*common.BiblicalReference{
			{ID: 5, JadID: "jad_bibl_5", Name: "Mt.5,3"},
		},
		Manuscripts: []*common.Manuscript{
			{
				ID: 20, JadID: "jad_ms_20", Name: json.RawMessage(`[{"id":20,"value":"Clm 14096"}]`),
				Library:              []common.Ref{{ID: 30}},
				InstitutionalContext: json.RawMessage(`[{"id":4,"value":"Benedictine","order":"1"}]`),
				DateWritten:          []common.DateRef{{ID: 100}},
			},
			{ID: 21, JadID: "jad_ms_21", Name: json.RawMessage(`[]`)},
			{ID: 22, JadID: "jad_ms_22", Name: json.RawMessage(`[{"id":22,"value":"Cod. 7"}]`)},
		},
		MsOccurrences: []*common.MsOccurrence{
			{
				ID: 1, Occurrence: []common.Ref{{ID: 1}}, Manuscript: []common.Ref{{ID: 20}},
				PositionInMs: json.RawMessage(`"fol. 3r"`), MsLocus: []common.Ref{{ID: 1, Value: "3r-4v"}},
			},
			{ID: 2, Occurrence: []common.Ref{{ID: 1}}, Manuscript: []common.Ref{{ID: 404}}},
			{ID: 3, Occurrence: []common.Ref{{ID: 3}}, Manuscript: []common.Ref{{ID: 20}}},
		},
		Libraries: []*common.Library{
			{ID: 30, JadID: "jad_library_30", Name: "Bayerische Staatsbibliothek", Place: []common.Ref{{ID: 40}}},
		},
		Places: []*common.Place{
			{ID: 40, JadID: "jad_place_40", Name: "Munich", Lat: "48.14", Long: "11.57"},
		},
	}
}

func TestRun(t *testing.T) {
	ds := testDataset()
	passages := ResolveWorkDates(ds.Passages, NewDateIndex(ds.Dates))
	repo := graph.NewRepository(passages)

	res := Run(ds, repo, nil)

	require.Len(t, res.Works, 1)
	w := res.Works[0]
	assert.Equal(t, "410-420", w.Date[0].Range)
	require.Len(t, w.Author, 1)
	assert.Equal(t, "Orosius", w.Author[0].Name)
	require.Len(t, w.RelatedPassages, 2)
	assert.Equal(t, "B7, Ch3", w.RelatedPassages[0].PositionInWork)
	assert.Equal(t, "B7, Ch9", w.RelatedPassages[1].PositionInWork)
	assert.Equal(t, []string{"MS A"}, w.RelatedPassages[1].Passages[0].OccurrenceFoundIn)
	assert.Equal(t, "12a", w.RelatedPassages[1].Passages[0].Page)

	require.Len(t, res.Passages, 2)
	p1, p2 := res.Passages[0], res.Passages[1]

	require.NotNil(t, p1.Pages)
	assert.Equal(t, "12a", *p1.Pages)
	assert.Equal(t, "cf. p. 12a of the edition", p1.TextParagraph)
	require.Len(t, p1.BiblicalReferences, 1)
	assert.Equal(t, 5, p1.BiblicalReferences[0].ID)
	assert.Equal(t, []string{"Matthew", "Genesis"}, p1.BiblicalRefLvl0)
	assert.JSONEq(t, `[{"id":3,"value":"MS A"}]`, string(p1.OccurrenceFoundIn))
	require.Len(t, p1.Work, 1)
	assert.Same(t, w, p1.Work[0])

	assert.Nil(t, p2.Pages)
	assert.Equal(t, []SourceSummary{{
		ID: 1, JadID: "jad_occurrence_1", Title: "Historia", Author: "Orosius",
		PositionInWork: "B7, Ch9", Passage: "Vespasianus",
	}}, p2.SourcePassage)
	assert.Equal(t, NavItem{ID: "jad_occurrence_1", Label: "Vespasianus"}, p2.Prev)
	assert.Equal(t, NavItem{}, p2.Next)

	assert.Equal(t, map[string]string{"orosius": "Orosius"}, res.AuthorsMap)

	assert.Equal(t, []ManuscriptLink{
		{ID: 20, JadID: "jad_ms_20", Name: "Munich, Clm 14096"},
		{ID: 22, JadID: "jad_ms_22", Name: "Cod. 7"},
	}, w.Manuscripts)

	assert.Equal(t, []MsOccurrence{
		{
			Manuscript: "Munich, Clm 14096", ManuscriptJadID: "jad_ms_20",
			PositionInMs: json.RawMessage(`"fol. 3r"`), MsLocus: "3r-4v",
		},
		{Manuscript: "TBD", ManuscriptJadID: ""},
	}, p1.MssOccurrences)
	assert.Equal(t, []MsOccurrence{}, p2.MssOccurrences)
}

func TestRunManuscripts(t *testing.T) {
	ds := testDataset()
	passages := ResolveWorkDates(ds.Passages, NewDateIndex(ds.Dates))
	repo := graph.NewRepository(passages)
	graphs, err := graph.NewBuilder(repo.All(), graph.NewBuilderParams{}).BuildAll(t.Context())
	require.NoError(t, err)

	res := Run(ds, repo, graphs)

	require.Len(t, res.Manuscripts, 2)
	ms := res.Manuscripts[0]
	assert.Equal(t, "jad_ms_20", ms.JadID)
	assert.JSONEq(t, `[{"id":20,"value":"Clm 14096"}]`, string(ms.Name))
	assert.JSONEq(t, `[{"id":4,"value":"Benedictine"}]`, string(ms.InstitutionalContext))
	assert.Equal(t, "410-420", ms.DateWritten[0].Range)
	assert.Equal(t, []LibraryLink{{
		ID: 30, Value: "Bayerische Staatsbibliothek", JadID: "jad_library_30",
		Place: []PlaceLink{{ID: 40, Value: "Munich", JadID: "jad_place_40", Lat: "48.14", Long: "11.57"}},
	}}, ms.Library)

	require.Len(t, ms.RelatedOccurrences, 2)
	first := ms.RelatedOccurrences[0]
	require.NotNil(t, first.Passages)
	assert.Equal(t, "jad_occurrence_1", first.Passages.JadID)
	assert.Nil(t, first.Passages.TransmissionGraph)
	assert.NotNil(t, res.Passages[0].TransmissionGraph)
	assert.JSONEq(t, `"fol. 3r"`, string(first.PositionInMs))

	// passage 3 has no text and is not published
	assert.Nil(t, ms.RelatedOccurrences[1].Passages)

	empty := res.Manuscripts[1]
	assert.Equal(t, "jad_ms_22", empty.JadID)
	assert.Equal(t, []LibraryLink{}, empty.Library)

	b, err := json.Marshal(empty)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, []any{}, decoded["related_occurrences"])
	assert.Equal(t, []any{}, decoded["institutional_context"])
}

func TestLibraryIndexUnknownLinks(t *testing.T) {
	places := NewPlaceIndex(nil)
	libs := NewLibraryIndex(nil, places)

	got := libs.Resolve([]common.Ref{{ID: 9, Value: "Vat. lat."}})
	assert.Equal(t, []LibraryLink{{ID: 9, Value: "Vat. lat.", Place: []PlaceLink{}}}, got)
	assert.Equal(t, "Cod. 1", manuscriptName("Cod. 1", got))

	assert.Equal(t, []PlaceLink{{ID: 3, Value: "Rome"}}, places.Resolve([]common.Ref{{ID: 3, Value: "Rome"}}))
}

func TestPassagesEmbedGraph(t *testing.T) {
	ds := testDataset()
	repo := graph.NewRepository(ds.Passages)
	graphs, err := graph.NewBuilder(repo.All(), graph.NewBuilderParams{}).BuildAll(t.Context())
	require.NoError(t, err)

	res := Run(ds, repo, graphs)
	require.NotNil(t, res.Passages[1].TransmissionGraph)
	assert.Equal(t, 1, res.Passages[1].TransmissionGraph.Dangling())

	b, err := json.Marshal(res.Passages[0])
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Contains(t, decoded, "transmissionGraph")
}

func TestResolveWorkDatesCopies(t *testing.T) {
	ds := testDataset()
	out := ResolveWorkDates(ds.Passages, NewDateIndex(ds.Dates))

	assert.Equal(t, common.Year(410), out[0].Work[0].Date[0].NotBefore)
	assert.Equal(t, common.Year(0), ds.Passages[0].Work[0].Date[0].NotBefore)
}
