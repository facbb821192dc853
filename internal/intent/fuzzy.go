package intent

import (
	"math"
	"slices"
	"strings"
)

const (
	unbaseScale       = 0.95
	partialScale      = 0.9
	longPartialScale  = 0.6
	longPartialLength = 8.0
)

// Ratio is the Indel similarity of a and b scaled to 0-100: twice the
// longest common subsequence over the combined length. Two empty strings
// score 100.
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(a, b)) / float64(total)
}

// normDistance turns an Indel distance over lensum characters into a score.
func normDistance(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 - 100*float64(dist)/float64(lensum)
}

func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for i := range a {
		prevDiag := 0
		for j := range b {
			up := row[j+1]
			if a[i] == b[j] {
				row[j+1] = prevDiag + 1
			} else if row[j] > up {
				row[j+1] = row[j]
			}
			prevDiag = up
		}
	}
	return row[len(b)]
}

// PartialRatio is the best Ratio of the shorter string against the windows
// of the longer one, including windows cut short at either end. Equal
// lengths are tried in both directions.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 {
		return 0
	}

	best := partialWindows(ra, rb)
	if best != 100 && len(ra) == len(rb) {
		best = math.Max(best, partialWindows(rb, ra))
	}
	return best
}

// partialWindows skips windows whose outer character is not in the needle.
func partialWindows(needle, hay []rune) float64 {
	chars := make(map[rune]struct{}, len(needle))
	for _, r := range needle {
		chars[r] = struct{}{}
	}
	has := func(r rune) bool {
		_, ok := chars[r]
		return ok
	}

	n, m := len(needle), len(hay)
	best := 0.0
	consider := func(window []rune) bool {
		if r := ratioRunes(needle, window); r > best {
			best = r
		}
		return best == 100
	}

	for i := 1; i < n; i++ {
		if has(hay[i-1]) && consider(hay[:i]) {
			return best
		}
	}
	for i := 0; i < m-n; i++ {
		if has(hay[i+n-1]) && consider(hay[i:i+n]) {
			return best
		}
	}
	for i := max(m-n, 0); i < m; i++ {
		if has(hay[i]) && consider(hay[i:]) {
			return best
		}
	}
	return best
}

// TokenSortRatio compares both strings after sorting their words.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the words the strings share with the words only
// one of them has. A string whose words are all in the other scores 100.
func TokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersect, diffAB, diffBA := splitSets(setA, setB)
	if len(intersect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	ab, ba := sortedJoin(diffAB), sortedJoin(diffBA)
	abLen, baLen := runeLen(ab), runeLen(ba)
	sectLen := runeLen(sortedJoin(intersect))

	sep := 0
	if sectLen != 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	abRunes, baRunes := []rune(ab), []rune(ba)
	dist := abLen + baLen - 2*lcsLength(abRunes, baRunes)
	result := normDistance(dist, sectABLen+sectBALen)

	if sectLen == 0 {
		return result
	}

	// sect+ab against sect differs only by the separator and ab.
	sectABRatio := normDistance(sep+abLen, sectLen+sectABLen)
	sectBARatio := normDistance(sep+baLen, sectLen+sectBALen)
	return math.Max(result, math.Max(sectABRatio, sectBARatio))
}

// PartialTokenRatio is PartialRatio over sorted words, and over the words
// unique to each side. Any shared word scores 100.
func PartialTokenRatio(a, b string) float64 {
	tokensA, tokensB := strings.Fields(a), strings.Fields(b)
	setA, setB := tokenSet(a), tokenSet(b)

	intersect, diffAB, diffBA := splitSets(setA, setB)
	if len(intersect) > 0 {
		return 100
	}

	result := PartialRatio(sortedJoin(tokensA), sortedJoin(tokensB))
	if len(tokensA) == len(diffAB) && len(tokensB) == len(diffBA) {
		return result
	}
	return math.Max(result, PartialRatio(sortedJoin(diffAB), sortedJoin(diffBA)))
}

// WRatio blends the scores above, trusting partial matches less the more
// the two lengths differ.
func WRatio(a, b string) float64 {
	la, lb := runeLen(a), runeLen(b)
	if la == 0 || lb == 0 {
		return 0
	}

	lenRatio := float64(max(la, lb)) / float64(min(la, lb))
	best := Ratio(a, b)

	if lenRatio < 1.5 {
		tokens := math.Max(TokenSortRatio(a, b), TokenSetRatio(a, b))
		return math.Max(best, tokens*unbaseScale)
	}

	scale := partialScale
	if lenRatio >= longPartialLength {
		scale = longPartialScale
	}

	best = math.Max(best, PartialRatio(a, b)*scale)
	return math.Max(best, PartialTokenRatio(a, b)*unbaseScale*scale)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

func splitSets(a, b map[string]struct{}) (intersect, onlyA, onlyB []string) {
	for t := range a {
		if _, ok := b[t]; ok {
			intersect = append(intersect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range b {
		if _, ok := a[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	return intersect, onlyA, onlyB
}

func sortedJoin(tokens []string) string {
	sorted := slices.Clone(tokens)
	slices.Sort(sorted)
	return strings.Join(sorted, " ")
}

func runeLen(s string) int {
	return len([]rune(s))
}
