// Package fulltext provides an optional in-memory full-text index over file
// contents, fed by the reindexer and queried without touching the filesystem.
package fulltext

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Index is a mem-only Bleve index over file contents, keyed by absolute path.
// Raw content is kept alongside for line-level result extraction.
type Index struct {
	mu       sync.RWMutex
	index    bleve.Index
	contents map[string]string // key: absolute path
}

// New creates an empty full-text index.
func New() (*Index, error) {
	bleveIndex, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return &Index{
		index:    bleveIndex,
		contents: make(map[string]string),
	}, nil
}

type document struct {
	Content string `json:"content"`
	Path    string `json:"path"`
}

func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false // raw content lives in the contents map
	contentField.IncludeInAll = true
	docMapping.AddFieldMappingsAt("content", contentField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Store = true
	pathField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", pathField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// IndexFile adds or updates a file's content.
func (ix *Index) IndexFile(path string, content string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.contents[path] = content
	if err := ix.index.Index(path, document{Content: content, Path: path}); err != nil {
		return fmt.Errorf("indexing %s: %w", path, err)
	}
	return nil
}

// RemoveFile drops a file from the index.
func (ix *Index) RemoveFile(path string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	delete(ix.contents, path)
	if err := ix.index.Delete(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// LineMatch is one matching line within a file.
type LineMatch struct {
	LineNumber int
	LineText   string
}

// FileResult groups the matching lines of one file.
type FileResult struct {
	Path    string
	Matches []LineMatch
}

// Search runs a full-text query. Query forms:
//   - plain text: word-level match
//   - "quoted text": exact phrase
//   - /regex/: regular expression
//
// Returns per-file results and the total number of matching lines.
func (ix *Index) Search(queryString string, maxResults int) ([]FileResult, int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if maxResults <= 0 {
		maxResults = 50
	}

	request := bleve.NewSearchRequest(buildQuery(queryString))
	request.Size = maxResults * 5 // hits are regrouped per file below
	request.Fields = []string{"path"}

	searchResult, err := ix.index.Search(request)
	if err != nil {
		return nil, 0, fmt.Errorf("searching index: %w", err)
	}

	term := rawTerm(queryString)
	var results []FileResult
	totalLines := 0

	for _, hit := range searchResult.Hits {
		content, ok := ix.contents[hit.ID]
		if !ok {
			continue
		}
		lines := matchingLines(content, term)
		if len(lines) == 0 {
			continue
		}
		totalLines += len(lines)
		results = append(results, FileResult{Path: hit.ID, Matches: lines})
		if len(results) >= maxResults {
			break
		}
	}

	return results, totalLines, nil
}

// buildQuery parses the query string into a Bleve query.
func buildQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)

	if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") && len(queryString) > 2 {
		return bleve.NewRegexpQuery(queryString[1 : len(queryString)-1])
	}
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		return bleve.NewMatchPhraseQuery(queryString[1 : len(queryString)-1])
	}
	return bleve.NewMatchQuery(queryString)
}

// rawTerm strips query syntax for line-level matching.
func rawTerm(queryString string) string {
	queryString = strings.TrimSpace(queryString)
	if len(queryString) > 2 {
		if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") {
			return queryString[1 : len(queryString)-1]
		}
		if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") {
			return queryString[1 : len(queryString)-1]
		}
	}
	return queryString
}

// matchingLines returns the lines of content containing the term,
// case-insensitively.
func matchingLines(content string, term string) []LineMatch {
	termLower := strings.ToLower(term)
	var matches []LineMatch
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), termLower) {
			matches = append(matches, LineMatch{LineNumber: i + 1, LineText: line})
		}
	}
	return matches
}

// DocumentCount returns the number of indexed documents.
func (ix *Index) DocumentCount() uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	count, _ := ix.index.DocCount()
	return count
}

// Clear removes all documents by recreating the underlying index.
func (ix *Index) Clear() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.index.Close(); err != nil {
		return fmt.Errorf("closing old index: %w", err)
	}
	newIndex, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("creating new index: %w", err)
	}
	ix.index = newIndex
	ix.contents = make(map[string]string)
	return nil
}

// Close releases the underlying index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.index.Close()
}
