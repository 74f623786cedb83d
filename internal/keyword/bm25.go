package keyword

import "math"

// BM25 free parameters: k1 controls term-frequency saturation, b controls
// document-length normalization against the corpus average length.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// bm25Model scores a tokenized query against a fixed tokenized corpus.
// The corpus is captured at construction time; the model is read-only after.
type bm25Model struct {
	corpusSize int
	avgDocLen  float64
	docLens    []int
	termFreqs  []map[string]int
	idf        map[string]float64
}

// newBM25Model builds a model over a non-empty token corpus.
func newBM25Model(corpus [][]string) *bm25Model {
	m := &bm25Model{
		corpusSize: len(corpus),
		docLens:    make([]int, len(corpus)),
		termFreqs:  make([]map[string]int, len(corpus)),
		idf:        make(map[string]float64),
	}

	docFreq := make(map[string]int)
	var totalLen int
	for i, tokens := range corpus {
		m.docLens[i] = len(tokens)
		totalLen += len(tokens)
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		m.termFreqs[i] = tf
		for t := range tf {
			docFreq[t]++
		}
	}
	if m.corpusSize > 0 {
		m.avgDocLen = float64(totalLen) / float64(m.corpusSize)
	}

	// IDF = ln(1 + (N - n + 0.5) / (n + 0.5)), strictly positive for every
	// indexed term, so a document scores zero iff no query term occurs in it.
	n := float64(m.corpusSize)
	for term, df := range docFreq {
		m.idf[term] = math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))
	}
	return m
}

// scores returns one BM25 score per corpus document for the query tokens.
// A zero score means no query term occurs in the document.
func (m *bm25Model) scores(query []string) []float64 {
	out := make([]float64, m.corpusSize)
	for _, term := range query {
		idf, ok := m.idf[term]
		if !ok {
			continue
		}
		for i, tf := range m.termFreqs {
			freq := float64(tf[term])
			if freq == 0 {
				continue
			}
			dl := float64(m.docLens[i])
			out[i] += idf * (freq * (bm25K1 + 1)) /
				(freq + bm25K1*(1-bm25B+bm25B*dl/m.avgDocLen))
		}
	}
	return out
}
