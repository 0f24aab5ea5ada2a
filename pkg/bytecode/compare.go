package bytecode

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/pmezard/go-difflib/difflib"
)

// CompareInsns returns the similarity of two instruction streams in [0, 1].
// Identical streams score 1.0, streams with nothing in common score 0.0, and
// the result does not depend on argument order. Streams that differ only in
// local variable slots or label numbering compare through the normalized
// token form and score 1.0.
func CompareInsns(a, b InsnList) float64 {
	return CompareTokens(a.Tokens(), b.Tokens())
}

// CompareTokens scores two pre-tokenized streams; callers that compare the
// same stream repeatedly tokenize once and reuse the result.
func CompareTokens(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// A single sequence-matcher ratio depends on which stream comes first;
	// taking the larger of both orders keeps the score symmetric.
	forward := difflib.NewMatcher(a, b).Ratio()
	backward := difflib.NewMatcher(b, a).Ratio()

	return max(forward, backward)
}

// CompareHistograms scores two opcode histograms by their shared instruction
// mass: 2*common / (total_a + total_b). Two empty histograms count as equal.
func CompareHistograms(a, b map[string]int) float64 {
	totalA, totalB, common := 0, 0, 0

	for _, n := range a {
		totalA += n
	}

	for op, n := range b {
		totalB += n

		if an := a[op]; an > 0 {
			common += min(an, n)
		}
	}

	if totalA+totalB == 0 {
		return 1
	}

	return 2 * float64(common) / float64(totalA+totalB)
}

// CompareRefSets scores two reference bitmaps by their Dice coefficient.
// Two empty sets count as equal.
func CompareRefSets(a, b *roaring.Bitmap) float64 {
	sizeA := a.GetCardinality()
	sizeB := b.GetCardinality()

	if sizeA+sizeB == 0 {
		return 1
	}

	shared := a.AndCardinality(b)

	return 2 * float64(shared) / float64(sizeA+sizeB)
}

// CompareCounts scores two non-negative counts by their ratio. Equal counts
// score 1, counts with nothing in common score toward 0.
func CompareCounts(a, b int) float64 {
	if a == b {
		return 1
	}
	if a > b {
		a, b = b, a
	}
	if b == 0 {
		return 1
	}

	return float64(a) / float64(b)
}
