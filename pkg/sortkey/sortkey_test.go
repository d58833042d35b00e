package sortkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger/memory"
)

func TestBookAbbreviation(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"Mt.5,3", "Mt"},
		{"1 Cor 13,4", "1 Cor"},
		{"4 Reg. 25,9", "4 Reg"},
		{"2Sam.7", "2Sam"},
		{"Hebr.3,1", "Hebr"},
		{"Acts1,8", "Acts"},
		{"Job 3", "Job"},
		{"Lc 19,41-44", "Lc"},
		{"  Ps.78,1 ", "Ps"},
	}
	for _, tt := range tests {
		got, ok := BookAbbreviation(tt.ref)
		require.True(t, ok, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}

	_, ok := BookAbbreviation("   ")
	assert.False(t, ok)
}

func TestBiblical(t *testing.T) {
	tests := []struct {
		ref  string
		want int
	}{
		{"Gen.1,1", 1_001_001},
		{"Mt.5,3", 49_005_003},
		{"Mt.6,1", 49_006_001},
		{"Lc 19,41-44", 51_019_041},
		{"1 Cor 13,4", 55_013_004},
		{"Hebr.3", 67_003_000},
		{"Ps", 23_000_000},
		{"4 Reg. 25,9", 14_025_009},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Biblical(tt.ref), tt.ref)
	}
}

func TestBiblicalOrdering(t *testing.T) {
	assert.Less(t, Biblical("Gen.1,1"), Biblical("Mt.5,3"))
	assert.Less(t, Biblical("Mt.5,3"), Biblical("Mt.6,1"))
	assert.Less(t, Biblical("Mt.5,3"), Biblical("Mt.5,10"))
	assert.Less(t, Biblical("Apoc 22,21"), Biblical("Unknown 1,1"))
}

func TestBiblicalUnknownWarns(t *testing.T) {
	mem := memory.NewMemoryLogger()
	logger.Init(mem)
	t.Cleanup(func() { logger.Init() })

	assert.Equal(t, UnknownReference, Biblical("Foo 1,1"))
	assert.Equal(t, UnknownReference, Biblical(""))
	assert.Equal(t, 1, mem.Count("warn", "Unknown book abbreviation"))
	assert.Equal(t, 1, mem.Count("warn", "empty"))
}

func TestWorkPosition(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"", UnknownPosition},
		{"   ", UnknownPosition},
		{"Amos, B2", 372},
		{"Mt. 3", 493},
		{"B3, Ch63", 40063},
		{"B1 Ch1", 20001},
		{"Sermo 2", 100002},
		{"Sermo 12 in natali", 100012},
		{"Praefatio", 1},
		{"Prefatio ad lectorem", 1},
		{"Epistola 7", 900007},
		{"Epilogus", 950000 + 'E'},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WorkPosition(tt.label), tt.label)
	}
}

func TestWorkPositionUnknownWarns(t *testing.T) {
	mem := memory.NewMemoryLogger()
	logger.Init(mem)
	t.Cleanup(func() { logger.Init() })

	assert.Equal(t, 900007, WorkPosition("Epistola 7"))
	assert.Equal(t, 950000+'E', WorkPosition("Epilogus"))
	assert.Equal(t, 2, mem.Count("warn", "Unrecognised position label"))

	mem.Reset()
	WorkPosition("B1, Ch1")
	WorkPosition("Sermo 3")
	WorkPosition("Praefatio")
	WorkPosition("")
	assert.Zero(t, mem.Count("warn", "Unrecognised position label"))
}

func TestWorkPositionAstralFirstCharacter(t *testing.T) {
	// U+1D504 encodes as the surrogate pair D835 DD04.
	assert.Equal(t, 950000+0xD835, WorkPosition("\U0001D504pilogus"))
	assert.Equal(t, 950000+'É', WorkPosition("Épilogue"))
}

func TestWorkPositionOrdering(t *testing.T) {
	labels := []string{"Praefatio", "Amos, B2", "B1, Ch1", "Sermo 1", "Liber 4", "Appendix"}
	for i := 1; i < len(labels); i++ {
		assert.Less(t, WorkPosition(labels[i-1]), WorkPosition(labels[i]),
			"%q should sort before %q", labels[i-1], labels[i])
	}
}

func TestBookLookups(t *testing.T) {
	n, ok := BookOrder("Apoc")
	require.True(t, ok)
	assert.Equal(t, 75, n)

	_, ok = BookOrder("Nope")
	assert.False(t, ok)

	assert.Equal(t, "Matthew", BookName("Mt"))
	assert.Equal(t, "Jude", BookName("Iud"))
	assert.Equal(t, "Xyz", BookName("Xyz"))
}
