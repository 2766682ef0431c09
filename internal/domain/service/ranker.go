package service

import (
	"math"
	"sort"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// DefaultTopK is how many contributors an assessment keeps.
const DefaultTopK = model.MaxContributors

// RankContributions orders raw by descending absolute impact and keeps the
// first k, preserving sign. Equal magnitudes keep their input order.
func RankContributions(raw []model.Contribution, k int) []model.Contribution {
	ranked := make([]model.Contribution, len(raw))
	copy(ranked, raw)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Impact) > math.Abs(ranked[j].Impact)
	})
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
