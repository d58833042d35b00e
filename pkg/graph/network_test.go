package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
)

func TestBuildNetwork(t *testing.T) {
	orphan := &common.Passage{ID: 4, JadID: "jad_occurrence_4", SourcePassages: []common.Ref{{ID: 404}}}
	repo := NewRepository([]*common.Passage{passage(1), passage(2, 1), passage(3, 1, 2), orphan})
	net := BuildNetwork(repo)

	require.Len(t, net.Nodes, 4)
	assert.Equal(t, "jad_occurrence_1", net.Nodes[0].ID)
	assert.Equal(t, "Author 1: Work 1", net.Nodes[0].Name)
	assert.Equal(t, 401, net.Nodes[0].DateNotBefore)
	assert.Equal(t, "pre 600", net.Nodes[0].Century)
	assert.InDelta(t, 300.0, net.Nodes[0].X, 1e-9)
	assert.InDelta(t, 150.0, net.Nodes[0].Y, 1e-9)
	assert.InDelta(t, 150.0, net.Nodes[1].X, 1e-9)
	assert.InDelta(t, 300.0, net.Nodes[1].Y, 1e-9)

	assert.Equal(t, "Unknown Author", net.Nodes[3].Author)
	assert.Equal(t, "Unknown Work", net.Nodes[3].Work)

	assert.Equal(t, []NetworkLink{
		{Source: "jad_occurrence_1", Target: "jad_occurrence_2"},
		{Source: "jad_occurrence_1", Target: "jad_occurrence_3"},
		{Source: "jad_occurrence_2", Target: "jad_occurrence_3"},
	}, net.Links)
}

func TestBuildNetworkEmpty(t *testing.T) {
	net := BuildNetwork(NewRepository(nil))
	assert.Empty(t, net.Nodes)
	assert.NotNil(t, net.Links)
	for _, n := range net.Nodes {
		assert.False(t, math.IsNaN(n.X))
	}
}

func TestCenturyBucket(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{0, "pre 600"},
		{599, "pre 600"},
		{600, "7th c."},
		{735, "8th c."},
		{899, "9th c."},
		{950, "10th c."},
		{1099, "11th c."},
		{1150, "12th c."},
		{1250, "13th c."},
		{1300, "after 1300"},
		{1480, "after 1300"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CenturyBucket(tt.year), "year %d", tt.year)
	}
}
