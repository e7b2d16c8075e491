// SPDX-License-Identifier: MPL-2.0

package nlp

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// authorSuffixRe matches "标题 …… 某某著/编/译/主编/等" lines where the
	// author sits just before a role suffix at the end.
	authorSuffixRe = regexp.MustCompile(`^(.*?)[\s:：\-—·]+([^\d]{1,30})(著|编|译|主编|等)$`)

	// parenAuthorRe matches "标题（作者）" / "title (author)" endings.
	parenAuthorRe = regexp.MustCompile(`^(.*?)[\s(（]([^()（）]*)[)）]$`)

	roleSuffixes = []string{"著", "编", "译", "主编"}
)

// titleMarks are decoration characters never kept in a parsed title.
const titleMarks = " 《》[]（）()"

// SplitTitleAuthor splits a raw query line into a title and author list
// using layout heuristics. When nothing looks like an author the whole
// cleaned line is returned as the title with an empty author list.
func SplitTitleAuthor(s string) (string, []string) {
	s = NormalizeWhitespace(s)
	if s == "" {
		return "", nil
	}

	cleaned := CleanLine(s)

	if m := authorSuffixRe.FindStringSubmatch(cleaned); m != nil {
		title := strings.Trim(m[1], " -—·:："+titleMarks)
		return title, DedupAuthors([]string{strings.TrimSpace(m[2])})
	}

	// CleanLine drops bracketed segments, so a trailing paren author has to
	// be matched against the raw line. Only fall back to it when stripping
	// left no author candidate, so "标题 作者（增订本）" keeps the real author.
	parts := strings.Fields(cleaned)
	if len(parts) < 2 {
		if m := parenAuthorRe.FindStringSubmatch(s); m != nil && utf8.RuneCountInString(m[2]) <= 12 {
			return strings.Trim(CleanLine(m[1]), titleMarks), DedupAuthors([]string{m[2]})
		}
	}

	// Last space-separated token as author, if short enough to be a name.
	if len(parts) >= 2 && utf8.RuneCountInString(parts[len(parts)-1]) <= 12 {
		title := strings.Trim(strings.Join(parts[:len(parts)-1], " "), titleMarks)
		return title, DedupAuthors([]string{parts[len(parts)-1]})
	}

	return strings.Trim(cleaned, titleMarks), nil
}

// DedupAuthors normalizes author names (whitespace folding, role suffix
// trimming) and removes duplicates while preserving order.
func DedupAuthors(authors []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, a := range authors {
		a = NormalizeWhitespace(a)
		if a == "" {
			continue
		}
		for _, suffix := range roleSuffixes {
			if strings.HasSuffix(a, suffix) && utf8.RuneCountInString(a) > utf8.RuneCountInString(suffix) {
				a = strings.TrimSpace(strings.TrimSuffix(a, suffix))
				break
			}
		}
		if _, ok := seen[a]; !ok {
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
