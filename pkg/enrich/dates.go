package enrich

import (
	"fmt"
	"math"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
)

const (
	defaultNotBefore = 70
	defaultNotAfter  = 1600
)

// DateIndex resolves date links against date.json.
type DateIndex map[int]*common.DateRecord

func NewDateIndex(dates []*common.DateRecord) DateIndex {
	idx := make(DateIndex, len(dates))
	for _, d := range dates {
		if d != nil {
			idx[d.ID] = d
		}
	}
	return idx
}

// Resolve fills range, bounds and century labels of each date link. Links
// without a matching record keep only id and view label. Missing bounds
// default to 70 and 1600.
func (idx DateIndex) Resolve(refs []common.DateRef) []common.DateRef {
	out := make([]common.DateRef, 0, len(refs))
	for _, ref := range refs {
		rec, ok := idx[ref.ID]
		if !ok {
			out = append(out, common.DateRef{ID: ref.ID, ViewLabel: ref.ViewLabel})
			continue
		}
		out = append(out, common.DateRef{
			ID:        ref.ID,
			Value:     ref.Value,
			Range:     fmt.Sprintf("%d-%d", rec.NotBefore.Or(0), rec.NotAfter.Or(defaultNotAfter)),
			NotBefore: common.Year(rec.NotBefore.Or(defaultNotBefore)),
			NotAfter:  common.Year(rec.NotAfter.Or(defaultNotAfter)),
			Century:   uniq(Century(int(rec.NotBefore)), Century(int(rec.NotAfter))),
		})
	}
	return out
}

// Century labels a year, e.g. 1150 as "12th cen.". Zero yields "N/A".
func Century(year int) string {
	if year == 0 {
		return "N/A"
	}
	c := int(math.Ceil(float64(year+1) / 100))
	return fmt.Sprintf("%d%s cen.", c, ordinalSuffix(c))
}

func ordinalSuffix(n int) string {
	if n >= 11 && n <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func uniq(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
