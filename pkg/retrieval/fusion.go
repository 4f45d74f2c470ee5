package retrieval

import "sort"

// DefaultRRFConstant is the k in 1/(k+rank) reciprocal-rank-fusion scoring;
// higher values flatten the influence of rank differences.
const DefaultRRFConstant = 60.0

// FuseRRF combines multiple ranked result lists into one, scoring each
// document by the sum of 1/(k + rank) across every list it appears in.
// Documents absent from a list contribute nothing from that list. Ties are
// broken by whichever list ranked the document higher in its dense source
// (lowest dense rank wins), then by document ID.
func FuseRRF(k float64, denseRank map[string]int, lists ...[]ScoredDocument) []ScoredDocument {
	if k <= 0 {
		k = DefaultRRFConstant
	}

	scores := make(map[string]float64)
	docs := make(map[string]Document)

	for _, list := range lists {
		for i, sd := range list {
			rank := sd.Rank
			if rank <= 0 {
				rank = i + 1
			}
			scores[sd.Document.ID] += 1.0 / (k + float64(rank))
			docs[sd.Document.ID] = sd.Document
		}
	}

	fused := make([]ScoredDocument, 0, len(scores))
	for id, score := range scores {
		fused = append(fused, ScoredDocument{Document: docs[id], Score: score})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		di, iok := denseRank[fused[i].Document.ID]
		dj, jok := denseRank[fused[j].Document.ID]
		if iok && jok && di != dj {
			return di < dj
		}
		if iok != jok {
			return iok
		}
		return fused[i].Document.ID < fused[j].Document.ID
	})

	for i := range fused {
		fused[i].Rank = i + 1
	}
	return fused
}
