// Package service implements the pairwise compatibility Scorer: a pure,
// total, symmetric function of two distinct forms and a tag-stats
// lookup. It holds no state and performs no I/O.
package service

import (
	"math"

	"github.com/hilomatch/hilo-core/modules/scoring/model"
)

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// sumIDF sums idf(t)*weight over every tag present in both a and b.
func sumIDF(a, b map[string]struct{}, stats model.IDFLookup, weight float64) float64 {
	total := 0.0
	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}
	for t := range smaller {
		if _, ok := larger[t]; !ok {
			continue
		}
		idf, ok := stats.IDF(t)
		if !ok {
			continue // unseen or non-matchable tag contributes 0
		}
		total += idf * weight
	}
	return total
}

func countOverlap(a, b map[string]struct{}) int {
	count := 0
	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}
	for t := range smaller {
		if _, ok := larger[t]; ok {
			count++
		}
	}
	return count
}

// Score computes the compatibility score of two forms. It is symmetric
// (Score(a,b,w,s) == Score(b,a,w,s)), never negative, and a missing IDF or an
// empty tag set simply contributes 0 to its term.
func Score(a, b model.FormInput, w model.Weights, stats model.IDFLookup) float64 {
	aFamiliar, bFamiliar := toSet(a.Familiar), toSet(b.Familiar)
	aAspirational, bAspirational := toSet(a.Aspirational), toSet(b.Aspirational)

	familiarFamiliar := sumIDF(aFamiliar, bFamiliar, stats, w.FF)
	aspirationalFamiliarAF := sumIDF(aAspirational, bFamiliar, stats, w.AF)
	aspirationalFamiliarFA := sumIDF(bAspirational, aFamiliar, stats, w.AF)
	aspirationalAspirational := sumIDF(aAspirational, bAspirational, stats, w.AA)

	aIdeal, bIdeal := toSet(a.IdealTraits), toSet(b.IdealTraits)
	aSelf, bSelf := toSet(a.SelfTraits), toSet(b.SelfTraits)
	traitMatches := countOverlap(aIdeal, bSelf) + countOverlap(bIdeal, aSelf)
	traitScore := float64(traitMatches) * w.Trait

	boundDiff := math.Abs(float64(a.PhysicalBoundary - b.PhysicalBoundary))
	boundScore := w.Bound * (1 - boundDiff/3)

	return familiarFamiliar + aspirationalFamiliarAF + aspirationalFamiliarFA + aspirationalAspirational + traitScore + boundScore
}
