// Package models defines core data structures for documents, chat requests, and search results.
package models

// Language tags recognized by the retrieval indices.
const (
	LangFrench = "fr"
	LangArabic = "ar"
)

// Document represents an indexed knowledge-base entry. Entries come from the
// RNE law files and related JSON sources; each carries a language tag ("fr" or
// "ar") that routes it to the matching retrieval index.
type Document struct {
	ID         string                 `json:"id"`
	Code       string                 `json:"code,omitempty"`
	Language   string                 `json:"language"`
	Content    string                 `json:"content"`
	SourceFile string                 `json:"source_file,omitempty"`
	DataType   string                 `json:"data_type,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// SearchResult is a single hybrid search hit.
type SearchResult struct {
	Document      Document `json:"document"`
	Score         float64  `json:"score"`
	KeywordScore  float64  `json:"keyword_score"`
	SemanticScore float64  `json:"semantic_score"`
	Rank          int      `json:"rank"`
}

// SearchRequest is the body of a direct retrieval request.
type SearchRequest struct {
	Query    string `json:"query"`
	TopK     int    `json:"top_k,omitempty"`
	Language string `json:"language,omitempty"`
}

// SearchResponse is the response for a direct retrieval request.
type SearchResponse struct {
	Results   []SearchResult `json:"results"`
	Total     int            `json:"total"`
	Language  string         `json:"language"`
	QueryTime int64          `json:"query_time_ms"`
	Query     string         `json:"query"`
}
