// Package search combines keyword and semantic retrieval into one ranked
// result list. Scores from the two retrievers live on different scales, so
// each list is min-max normalized to [0,1] before the weighted merge.
package search

import (
	"sort"

	"github.com/OuhabYouceff/RBOT/internal/keyword"
	"github.com/OuhabYouceff/RBOT/internal/semantic"
)

// fused holds one document's combined score with the weighted contributions
// of each retriever.
type fused struct {
	id            string
	score         float64
	keywordScore  float64
	semanticScore float64
}

// minMaxNormalize rescales scores to [0,1]. When every score is equal they
// all become 1.0 so a degenerate list still contributes.
func minMaxNormalize(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return scores
	}
	var min, max float64
	first := true
	for _, s := range scores {
		if first {
			min, max = s, s
			first = false
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	out := make(map[string]float64, len(scores))
	if max == min {
		for id := range scores {
			out[id] = 1.0
		}
		return out
	}
	for id, s := range scores {
		out[id] = (s - min) / (max - min)
	}
	return out
}

func keywordScoreMap(results []keyword.Result) map[string]float64 {
	out := make(map[string]float64, len(results))
	for _, r := range results {
		out[r.Document.ID] = r.Score
	}
	return out
}

func semanticScoreMap(results []semantic.Result) map[string]float64 {
	out := make(map[string]float64, len(results))
	for _, r := range results {
		out[r.ID] = r.Score
	}
	return out
}

// fuse merges normalized score maps with the given weights and returns the
// documents sorted by combined score descending.
func fuse(keywordScores, semanticScores map[string]float64, keywordWeight, semanticWeight float64) []fused {
	byID := make(map[string]*fused)
	for id, s := range keywordScores {
		byID[id] = &fused{id: id, keywordScore: s * keywordWeight}
	}
	for id, s := range semanticScores {
		f, ok := byID[id]
		if !ok {
			f = &fused{id: id}
			byID[id] = f
		}
		f.semanticScore = s * semanticWeight
	}
	out := make([]fused, 0, len(byID))
	for _, f := range byID {
		f.score = f.keywordScore + f.semanticScore
		out = append(out, *f)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].score != out[b].score {
			return out[a].score > out[b].score
		}
		return out[a].id < out[b].id
	})
	return out
}
