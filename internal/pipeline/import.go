// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// importWorkers bounds how many queries run concurrently during a batch
// import. Providers are rate limited anyway; this just keeps a few lookups
// in flight while others wait on the network.
const importWorkers = 4

// Header aliases recognized in CSV imports, all compared lowercase.
var (
	titleKeys  = map[string]bool{"title": true, "书名": true, "标题": true, "name": true, "book": true, "book_title": true}
	authorKeys = map[string]bool{"author": true, "authors": true, "作者": true, "作者们": true, "author_name": true, "author_names": true}
	isbnKeys   = map[string]bool{"isbn": true, "图书编号": true, "编码": true}
	queryKeys  = map[string]bool{"query": true, "检索词": true, "搜索": true, "原始行": true, "raw": true}
)

// ImportResult summarizes one batch import.
type ImportResult struct {
	Total  int
	OK     int
	Failed int
	// Failures lists the queries that could not be resolved.
	Failures []string
}

// ImportFile parses an import file (CSV with recognized headers, or plain
// text with one query per line) and ingests every row. Parsing errors fail
// the whole import; per-row lookup misses only count as failures.
func (p *Pipeline) ImportFile(ctx context.Context, name string, data []byte) (*ImportResult, error) {
	var (
		queries []string
		err     error
	)
	if strings.EqualFold(filepath.Ext(name), ".txt") {
		queries, err = parseLines(data)
	} else {
		queries, err = parseCSV(data)
	}
	if err != nil {
		return nil, err
	}
	return p.IngestAll(ctx, queries)
}

// IngestAll runs every query through Ingest with a bounded worker pool.
func (p *Pipeline) IngestAll(ctx context.Context, queries []string) (*ImportResult, error) {
	result := &ImportResult{Total: len(queries)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importWorkers)

	for _, q := range queries {
		g.Go(func() error {
			book, err := p.Ingest(gctx, q)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.OK++
				p.logger.Info("imported", "query", q, "id", book.ID, "title", book.Title)
			case errors.Is(err, ErrNoMatch):
				result.Failed++
				result.Failures = append(result.Failures, q)
				p.logger.Warn("no match", "query", q)
			default:
				return fmt.Errorf("ingest %q: %w", q, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// parseLines reads one query per line, skipping blanks and # comments.
func parseLines(data []byte) ([]string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// parseCSV reads an import table. When the header names a recognized
// title/author/isbn/query column the rows are assembled from those fields;
// otherwise every first column is treated as a raw query line.
func parseCSV(data []byte) ([]string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	titleCol, authorCol, isbnCol, queryCol := -1, -1, -1, -1
	for i, h := range header {
		switch h = strings.ToLower(strings.TrimSpace(h)); {
		case titleKeys[h] && titleCol < 0:
			titleCol = i
		case authorKeys[h] && authorCol < 0:
			authorCol = i
		case isbnKeys[h] && isbnCol < 0:
			isbnCol = i
		case queryKeys[h] && queryCol < 0:
			queryCol = i
		}
	}

	var out []string
	if titleCol < 0 && authorCol < 0 && isbnCol < 0 && queryCol < 0 {
		// No recognized header: the whole file is raw query lines.
		for _, rec := range records {
			if len(rec) > 0 {
				if q := strings.TrimSpace(rec[0]); q != "" {
					out = append(out, q)
				}
			}
		}
		return out, nil
	}

	for _, rec := range records[1:] {
		title := normalizeField(field(rec, titleCol))
		authors := normalizeField(field(rec, authorCol))
		isbn := normalizeField(field(rec, isbnCol))
		query := normalizeField(field(rec, queryCol))
		if query == "" {
			query = strings.TrimSpace(title + " " + authors)
		}

		q := isbn
		if q == "" {
			q = strings.TrimSpace(title + " " + authors)
		}
		if q == "" {
			q = query
		}
		if q != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// normalizeField collapses the various list separators to commas.
func normalizeField(s string) string {
	s = strings.TrimSpace(s)
	for _, sep := range []string{";", "；", "、", "/", "|", "，"} {
		s = strings.ReplaceAll(s, sep, ",")
	}
	for strings.Contains(s, ",,") {
		s = strings.ReplaceAll(s, ",,", ",")
	}
	return strings.Trim(s, ", ")
}

// decodeText turns file bytes into a UTF-8 string. A UTF-8 BOM is dropped;
// invalid UTF-8 falls back to GB18030, which covers GBK and GB2312 exports
// from Chinese spreadsheet tools.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), simplifiedchinese.GB18030.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode import file: %w", err)
	}
	return string(decoded), nil
}

// sniffDelimiter picks the most plausible delimiter for the first line.
func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', 0
	for _, cand := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}
