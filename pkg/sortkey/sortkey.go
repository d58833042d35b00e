// Package sortkey computes integer sort keys for biblical references and for
// the position labels of passages inside a work.
package sortkey

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

const (
	// UnknownReference sorts references with an unrecognised book last.
	UnknownReference = 999999999
	// UnknownPosition sorts empty position labels last.
	UnknownPosition = 999999
)

var (
	reNumberedWithSpace = regexp.MustCompile(`^\d+\s+[A-Za-z]+`)
	reNumbered          = regexp.MustCompile(`^\d[A-Za-z]+`)
	reSeparator         = regexp.MustCompile(`[\s.,]`)
	reLeadingPunct      = regexp.MustCompile(`^[.,\s]+`)
	reChapterVerse      = regexp.MustCompile(`^(\d+)(?:[.,](\d+(?:-\d+)?))?`)

	reBiblicalPosition = regexp.MustCompile(`^([A-Za-z0-9]+)\.?,?\s*B?(\d+)$`)
	reBookChapter      = regexp.MustCompile(`^B(\d+),?\s*Ch(\d+)$`)
	reSermo            = regexp.MustCompile(`^Sermo\s+(\d+)`)
	reAnyNumber        = regexp.MustCompile(`(\d+)`)
)

// Book names that would be cut short by the generic split, e.g. "Hebr" in
// "Hebr.3,1" or "Acts" glued to its chapter.
var specialBooks = []string{"Joel", "Acts", "Job", "Ruth", "Jude", "Hebr", "Koh"}

// BookAbbreviation extracts the book part of a reference such as "Mt.5,3",
// "1 Cor 13,4" or "2Sam.7". It returns false for an empty reference.
func BookAbbreviation(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if m := reNumberedWithSpace.FindString(ref); m != "" {
		return m, true
	}
	if m := reNumbered.FindString(ref); m != "" {
		return m, true
	}
	for _, special := range specialBooks {
		if strings.HasPrefix(ref, special) {
			return special, true
		}
	}
	return reSeparator.Split(ref, 2)[0], true
}

func parseChapterVerse(ref, abbrev string) (chapter, verse int) {
	rest := strings.TrimSpace(ref[len(abbrev):])
	rest = reLeadingPunct.ReplaceAllString(rest, "")
	m := reChapterVerse.FindStringSubmatch(rest)
	if m == nil {
		return 0, 0
	}
	chapter, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		first, _, _ := strings.Cut(m[2], "-")
		verse, _ = strconv.Atoi(first)
	}
	return chapter, verse
}

// Biblical returns bookOrder*1_000_000 + chapter*1_000 + verse for a
// reference. Verse ranges use their first verse. References whose book is
// unknown get UnknownReference and a warning.
func Biblical(ref string) int {
	ref = strings.TrimSpace(ref)
	abbrev, ok := BookAbbreviation(ref)
	if !ok {
		logger.Warn("[Sort] Reference value is empty")
		return UnknownReference
	}
	order, ok := novaVulgataOrder[abbrev]
	if !ok {
		logger.Warn("[Sort] Unknown book abbreviation", "abbrev", abbrev, "ref", ref)
		return UnknownReference
	}
	chapter, verse := parseChapterVerse(ref, abbrev)
	return order*1_000_000 + chapter*1_000 + verse
}

// WorkPosition returns a sort key for a position_in_work label. Labels fall
// into disjoint ranges so that prefaces come first, then biblical
// commentary sections, book/chapter divisions, sermons, and finally
// anything unrecognised.
func WorkPosition(label string) int {
	label = strings.TrimSpace(label)
	if label == "" {
		return UnknownPosition
	}

	if m := reBiblicalPosition.FindStringSubmatch(label); m != nil {
		if order, ok := novaVulgataOrder[m[1]]; ok {
			n, _ := strconv.Atoi(m[2])
			return order*10 + n
		}
	}

	if m := reBookChapter.FindStringSubmatch(label); m != nil {
		book, _ := strconv.Atoi(m[1])
		chapter, _ := strconv.Atoi(m[2])
		return 10000 + book*10000 + chapter
	}

	if m := reSermo.FindStringSubmatch(label); m != nil {
		n, _ := strconv.Atoi(m[1])
		return 100000 + n
	}

	if strings.HasPrefix(label, "Praefatio") || strings.HasPrefix(label, "Prefatio") {
		return 1
	}

	logger.Warn("[Sort] Unrecognised position label", "label", label)

	if m := reAnyNumber.FindStringSubmatch(label); m != nil {
		n, _ := strconv.Atoi(m[1])
		return 900000 + n
	}

	return 950000 + firstCodeUnit(label)
}

// firstCodeUnit returns the first UTF-16 code unit of s, so characters
// outside the BMP contribute their high surrogate.
func firstCodeUnit(s string) int {
	r, _ := utf8.DecodeRuneInString(s)
	return int(utf16.Encode([]rune{r})[0])
}
