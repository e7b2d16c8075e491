// SPDX-License-Identifier: MPL-2.0

package classify

import (
	"context"
	"regexp"
	"strings"
)

// Source identifies which tier produced a classification.
type Source string

const (
	SourceCIP  Source = "cip"
	SourceLLM  Source = "llm"
	SourceRule Source = "rule"
)

// Result is a classification outcome. Code may carry subdivision digits
// (for example "TP391.1"); Label always describes the top-level category.
type Result struct {
	Code       string
	Label      string
	Confidence float64
	Source     Source
}

// Input is the metadata the classifier works from. CIP, when present and
// parseable, wins outright.
type Input struct {
	Title   string
	Authors []string
	Summary string
	CIP     string
}

// LLMClassifier is an optional second tier. Implementations return ok=false
// when they cannot produce a code, which is not an error.
type LLMClassifier interface {
	Classify(ctx context.Context, in Input) (code string, ok bool, err error)
}

// Classifier runs the tiered CLC assignment. A nil LLM field simply skips
// that tier.
type Classifier struct {
	LLM LLMClassifier
}

var (
	clcRe    = regexp.MustCompile(`(?i)\b([A-Z])[A-Z0-9]{0,2}(?:\.\d+)?`)
	cipCLCRe = regexp.MustCompile(`(?i)\b([A-Z])([A-Z0-9]{0,2})(?:\.\d+)?`)
)

// Classify assigns a CLC code to the input. It never fails: when the CIP and
// LLM tiers yield nothing the keyword tier provides a fallback, degrading to
// 综合性图书 (Z) with low confidence for unrecognizable input.
func (c *Classifier) Classify(ctx context.Context, in Input) Result {
	if code := codeFromCIP(in.CIP); code != "" {
		return Result{Code: code, Label: Label(code), Confidence: 0.95, Source: SourceCIP}
	}

	if c.LLM != nil {
		if code, ok, err := c.LLM.Classify(ctx, in); err == nil && ok {
			if m := clcRe.FindString(strings.ToUpper(code)); m != "" {
				return Result{Code: m, Label: Label(m), Confidence: 0.85, Source: SourceLLM}
			}
		}
	}

	return RuleBased(in)
}

// RuleBased scores the concatenated title, authors and summary against the
// keyword table and picks the best category. Confidence maps from the raw
// score: zero hits land around 0.5, three or more hits around 0.9.
func RuleBased(in Input) Result {
	blob := strings.TrimSpace(strings.Join([]string{
		normalize(in.Title),
		normalize(strings.Join(in.Authors, ",")),
		normalize(in.Summary),
	}, " "))
	if strings.TrimSpace(blob) == "" {
		return Result{Code: "Z", Label: Label("Z"), Confidence: 0.0, Source: SourceRule}
	}

	code, score := pickBest(scoreKeywords(blob))

	var conf float64
	switch {
	case score <= 0:
		if code == "Z" {
			conf = 0.5
		} else {
			conf = 0.55
		}
	case score < 2:
		conf = 0.65
	case score < 4:
		conf = 0.8
	default:
		conf = 0.92
	}

	return Result{Code: code, Label: Label(code), Confidence: conf, Source: SourceRule}
}

func codeFromCIP(cip string) string {
	if strings.TrimSpace(cip) == "" {
		return ""
	}
	m := cipCLCRe.FindString(strings.ToUpper(cip))
	return m
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	for _, r := range []string{"《", "》", "【", "】"} {
		s = strings.ReplaceAll(s, r, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

func scoreKeywords(text string) map[string]float64 {
	textLC := strings.ToLower(text)
	scores := make(map[string]float64, len(Labels))
	for code := range Labels {
		scores[code] = 0
	}
	for code, kws := range keywords {
		for _, kw := range kws {
			if kw != "" && strings.Contains(textLC, strings.ToLower(kw)) {
				base := 1.0
				if sciTechCategories[code] {
					base = 1.2
				}
				scores[code] += base
			}
		}
	}
	return scores
}

func pickBest(scores map[string]float64) (string, float64) {
	best, bestScore := "Z", -1.0
	for code, score := range scores {
		if score > bestScore || (score == bestScore && code < best) {
			best, bestScore = code, score
		}
	}
	if bestScore < 0 {
		return "Z", 0
	}
	return best, bestScore
}
