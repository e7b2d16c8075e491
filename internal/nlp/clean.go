// SPDX-License-Identifier: MPL-2.0

package nlp

import (
	"regexp"
	"strings"
)

var (
	// bracketRe matches bracketed segments in both CJK and ASCII forms;
	// these usually hold series names or marketing blurbs, never the title.
	bracketRe = regexp.MustCompile(`[【\[(（][^】\])）]*[】\])）]`)

	// listNumberRe strips leading enumeration like "1. ", "1、", "1) ", "1- ", "1:".
	listNumberRe = regexp.MustCompile(`^\s*\d+[.、)\-：:]\s*`)

	// spacedNumberRe catches the "4 .  文明简史" variant with space before the dot.
	spacedNumberRe = regexp.MustCompile(`^\s*\d+\s*\.\s*`)

	whitespaceRe = regexp.MustCompile(`\s+`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)

	isbnRe = regexp.MustCompile(`(97[89]\d{10}|\d{9}[0-9Xx])`)
)

// NormalizeWhitespace collapses runs of whitespace to single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// CleanLine normalizes a raw input line:
//   - bracketed segments are removed (CJK and ASCII brackets)
//   - leading list numbering is stripped
//   - '+', '/', '、', full-width spaces and tabs become single spaces
//   - runs of spaces are folded
func CleanLine(s string) string {
	s = bracketRe.ReplaceAllString(s, "")
	s = listNumberRe.ReplaceAllString(s, "")
	s = spacedNumberRe.ReplaceAllString(s, "")
	s = strings.NewReplacer(
		"+", " ",
		"/", " ",
		"、", " ",
		"　", " ", // full-width space
		"\t", " ",
	).Replace(s)
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FindISBN extracts the first ISBN-13 or ISBN-10 from free text, tolerating
// dashes and spaces inside the number. Returns "" when none is found.
func FindISBN(text string) string {
	if text == "" {
		return ""
	}
	compact := strings.NewReplacer("-", "", " ", "").Replace(text)
	m := isbnRe.FindString(compact)
	return strings.ToUpper(m)
}
