package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger/memory"
)

type row struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDecodeArray(t *testing.T) {
	rows, err := Decode[row]([]byte(`[{"id":2,"name":"b"},null,{"id":1,"name":"a"}]`))
	require.NoError(t, err)
	assert.Equal(t, []row{{2, "b"}, {1, "a"}}, rows)
}

func TestDecodeObjectKeyedByID(t *testing.T) {
	in := `{"10":{"id":10,"name":"ten"},"2":{"id":2,"name":"two"},"x":{"id":99,"name":"extra"},"1":{"id":1,"name":"one"}}`
	rows, err := Decode[row]([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, []row{{1, "one"}, {2, "two"}, {10, "ten"}, {99, "extra"}}, rows)
}

func TestDecodeRepairsMalformedJSON(t *testing.T) {
	mem := memory.NewMemoryLogger()
	logger.Init(mem)
	t.Cleanup(func() { logger.Init() })

	rows, err := Decode[row]([]byte(`[{"id":1,"name":"a",},{"id":2,"name":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, []row{{1, "a"}, {2, "b"}}, rows)
	assert.Equal(t, 1, mem.Count("warn", "Repaired"))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode[row](nil)
	assert.Error(t, err)

	_, err = Decode[row]([]byte(`"just a string"`))
	assert.Error(t, err)

	_, err = Decode[row]([]byte(`[{"id":"not a number"}]`))
	assert.Error(t, err)
}

func TestDecodePassagesAcceptsBothSourceKeys(t *testing.T) {
	in := `{"1":{"id":1,"jad_id":"a","source_passage":[{"id":2}]},"2":{"id":2,"jad_id":"b","sourcePassages":[{"id":3}]}}`
	passages, err := Decode[*common.Passage]([]byte(in))
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, 2, passages[0].SourcePassages[0].ID)
	assert.Equal(t, 3, passages[1].SourcePassages[0].ID)
}

func TestCacheCollapsesConcurrentFetches(t *testing.T) {
	c := NewCache()
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.Get("k", func() ([]byte, error) {
				calls.Add(1)
				<-release
				return []byte("v"), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "v", string(b))
		}()
	}
	close(release)
	wg.Wait()

	b, err := c.Get("k", func() ([]byte, error) { return nil, errors.New("must not be called") })
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))
	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))

	c.Reset()
	_, err = c.Get("k", func() ([]byte, error) { return nil, errors.New("refetched") })
	assert.EqualError(t, err, "refetched")
}

type mapLoader map[string]string

func (m mapLoader) Load(_ context.Context, name string) ([]byte, error) {
	s, ok := m[name]
	if !ok {
		return nil, errors.New("missing " + name)
	}
	return []byte(s), nil
}
func (m mapLoader) Reset()           {}
func (m mapLoader) Describe() string { return "map" }

func TestLoadDataset(t *testing.T) {
	files := DefaultFileNames()
	l := mapLoader{
		files.Passages:           `[{"id":1,"jad_id":"p1","passage":"Text"}]`,
		files.Works:              `{"5":{"id":5,"title":"Historia"}}`,
		files.Authors:            `[{"id":3,"name":"Orosius"}]`,
		files.Dates:              `[{"id":4,"not_before":"417","not_after":418}]`,
		files.BiblicalReferences: `[{"id":6,"name":"Mt.5,3"}]`,
		files.Manuscripts:        `[{"id":7,"name":[{"id":1,"value":"Clm 14096"}],"library":[{"id":8}]}]`,
		files.MsOccurrences:      `[{"id":9,"occurrence":[{"id":1}],"manuscript":[{"id":7}]}]`,
		files.Libraries:          `[{"id":8,"name":"BSB","place":[{"id":2,"value":"Munich"}]}]`,
		files.Places:             `{"2":{"id":2,"name":"Munich","lat":"48.13","long":11.57}}`,
	}

	ds, err := LoadDataset(context.Background(), l, files)
	require.NoError(t, err)
	require.Len(t, ds.Manuscripts, 1)
	assert.Equal(t, "Clm 14096", ds.Manuscripts[0].DisplayName())
	require.Len(t, ds.MsOccurrences, 1)
	assert.Equal(t, 7, ds.MsOccurrences[0].Manuscript[0].ID)
	require.Len(t, ds.Libraries, 1)
	require.Len(t, ds.Places, 1)
	assert.Equal(t, common.Text("11.57"), ds.Places[0].Long)
	require.Len(t, ds.Passages, 1)
	assert.Equal(t, "p1", ds.Passages[0].JadID)
	assert.Equal(t, common.Text("Historia"), ds.Works[0].Title)
	assert.Equal(t, common.Text("Orosius"), ds.Authors[0].Name)
	assert.Equal(t, common.Year(417), ds.Dates[0].NotBefore)
	assert.Equal(t, common.Text("Mt.5,3"), ds.BiblicalReferences[0].Name)
}

func TestLoadDatasetSkipsUnnamedTables(t *testing.T) {
	files := DefaultFileNames()
	files.Manuscripts, files.MsOccurrences, files.Libraries, files.Places = "", "", "", ""
	l := mapLoader{
		files.Passages:           `[]`,
		files.Works:              `[]`,
		files.Authors:            `[]`,
		files.Dates:              `[]`,
		files.BiblicalReferences: `[]`,
	}

	ds, err := LoadDataset(context.Background(), l, files)
	require.NoError(t, err)
	assert.Empty(t, ds.Manuscripts)
	assert.Equal(t, []string{"passages.json", "works.json", "authors.json", "date.json", "biblical_references.json"}, files.All())
}

func TestLoadDatasetMissingTable(t *testing.T) {
	files := DefaultFileNames()
	_, err := LoadDataset(context.Background(), mapLoader{}, files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}
