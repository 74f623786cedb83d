// Package loader reads the RNE corpus files and turns them into indexable
// documents. Registry-law items carry parallel French and Arabic content and
// expand into one document per language; everything else defaults to French.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OuhabYouceff/RBOT/internal/models"
	"go.uber.org/zap"
)

// Loader scans the configured data paths for JSON corpus files.
type Loader struct {
	paths  []string
	logger *zap.Logger
}

// New builds a loader over the given files or directories.
func New(paths []string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{paths: paths, logger: logger}
}

// Load reads every corpus file and returns aligned texts and documents ready
// for indexing. A file that cannot be read or parsed is logged and skipped so
// one bad file does not take the whole corpus down.
func (l *Loader) Load() ([]string, []models.Document, error) {
	files, err := l.filePaths()
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("loader: no corpus files under %v", l.paths)
	}

	var texts []string
	var docs []models.Document
	for _, file := range files {
		items, err := readItems(file)
		if err != nil {
			l.logger.Warn("corpus file skipped", zap.String("file", file), zap.Error(err))
			continue
		}
		name := filepath.Base(file)
		for idx, item := range items {
			for _, doc := range processItem(item, name, idx) {
				text := indexText(doc)
				if text == "" {
					continue
				}
				texts = append(texts, text)
				docs = append(docs, doc)
			}
		}
		l.logger.Info("corpus file loaded", zap.String("file", name), zap.Int("items", len(items)))
	}
	l.logger.Info("corpus loaded", zap.Int("documents", len(docs)), zap.Int("files", len(files)))
	return texts, docs, nil
}

// filePaths resolves the configured paths into a sorted list of .json files.
func (l *Loader) filePaths() ([]string, error) {
	var out []string
	for _, p := range l.paths {
		info, err := os.Stat(p)
		if err != nil {
			l.logger.Warn("data path missing", zap.String("path", p), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			if strings.HasSuffix(p, ".json") {
				out = append(out, p)
			}
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("loader: read dir %s: %w", p, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
				out = append(out, filepath.Join(p, e.Name()))
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// readItems parses one corpus file. The file may hold a top-level array or an
// object wrapping arrays; object values are concatenated in key order.
func readItems(path string) ([]map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("not a JSON array or object: %w", err)
	}
	keys := make([]string, 0, len(wrapper))
	for k := range wrapper {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var nested []map[string]interface{}
		if err := json.Unmarshal(wrapper[k], &nested); err == nil {
			items = append(items, nested...)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no item arrays found")
	}
	return items, nil
}

// isLawItem reports whether the item carries per-language registry content.
func isLawItem(item map[string]interface{}) bool {
	if _, ok := item["code"]; !ok {
		return false
	}
	_, fr := item["french_content"]
	_, ar := item["arabic_content"]
	return fr || ar
}

func processItem(item map[string]interface{}, filename string, idx int) []models.Document {
	if isLawItem(item) {
		return processLawItem(item, filename)
	}
	return []models.Document{processGeneralItem(item, filename, idx)}
}

// lawMetadataFields are carried from law items into document metadata.
var lawMetadataFields = []string{"type_entreprise", "genre_entreprise", "procedure", "redevance_demandee", "delais"}

func processLawItem(item map[string]interface{}, filename string) []models.Document {
	code, _ := item["code"].(string)
	meta := make(map[string]interface{})
	for _, field := range lawMetadataFields {
		if v, ok := item[field].(string); ok && v != "" {
			meta[field] = v
		}
	}

	var docs []models.Document
	build := func(lang, contentKey, pdfKey string) {
		content, ok := item[contentKey].(map[string]interface{})
		if !ok || len(content) == 0 {
			return
		}
		docMeta := make(map[string]interface{}, len(meta)+1)
		for k, v := range meta {
			docMeta[k] = v
		}
		if link, ok := item[pdfKey].(string); ok && link != "" {
			docMeta["pdf_link"] = link
		}
		docs = append(docs, models.Document{
			ID:         code + "_" + lang,
			Code:       code,
			Language:   lang,
			Content:    flattenContent(content),
			SourceFile: filename,
			DataType:   "rne_law",
			Metadata:   docMeta,
		})
	}
	build(models.LangFrench, "french_content", "pdf_french_link")
	build(models.LangArabic, "arabic_content", "pdf_arabic_link")
	return docs
}

// dataTypeByFile tags documents from the known corpus files.
var dataTypeByFile = map[string]string{
	"external_data.json":    "business_fiscal",
	"fiscal_knowledge.json": "fiscal_info",
	"rne_laws.json":         "rne_law",
}

func processGeneralItem(item map[string]interface{}, filename string, idx int) models.Document {
	id := ""
	if v, ok := item["id"].(string); ok && v != "" {
		id = v
	} else if v, ok := item["code"].(string); ok && v != "" {
		id = v
	} else {
		id = fmt.Sprintf("%s_%d", strings.TrimSuffix(filename, ".json"), idx)
	}
	dataType, ok := dataTypeByFile[filename]
	if !ok {
		dataType = "general"
	}
	code, _ := item["code"].(string)
	return models.Document{
		ID:         id,
		Code:       code,
		Language:   models.LangFrench,
		Content:    flattenItem(item),
		SourceFile: filename,
		DataType:   dataType,
	}
}

// flattenItem renders every non-ID field of the item as "key: value" lines.
func flattenItem(item map[string]interface{}) string {
	keys := make([]string, 0, len(item))
	for k := range item {
		if k == "id" || k == "code" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		if text := flattenValue(item[k]); text != "" {
			lines = append(lines, k+": "+text)
		}
	}
	return strings.Join(lines, "\n")
}

// flattenContent renders a content object as "key: value" lines, joining
// list entries with spaces.
func flattenContent(content map[string]interface{}) string {
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		if text := flattenValue(content[k]); text != "" {
			lines = append(lines, k+": "+text)
		}
	}
	return strings.Join(lines, "\n")
}

func flattenValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
	case bool:
		return fmt.Sprintf("%t", val)
	case []interface{}:
		var parts []string
		for _, item := range val {
			if text := flattenValue(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, " ")
	case map[string]interface{}:
		return flattenContent(val)
	default:
		return ""
	}
}

// indexText combines the document's identifying fields and content into the
// string handed to the retrievers.
func indexText(doc models.Document) string {
	parts := []string{}
	if doc.Code != "" {
		parts = append(parts, doc.Code)
	}
	if doc.ID != "" {
		parts = append(parts, doc.ID)
	}
	for _, field := range []string{"type_entreprise", "genre_entreprise", "procedure"} {
		if v, ok := doc.Metadata[field].(string); ok && v != "" {
			parts = append(parts, v)
		}
	}
	if doc.Content != "" {
		parts = append(parts, doc.Content)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
