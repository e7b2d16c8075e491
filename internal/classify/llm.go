// SPDX-License-Identifier: MPL-2.0

package classify

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// DefaultLLMModel is used when the configuration leaves the model blank.
const DefaultLLMModel = "gemini-2.0-flash"

// GenAIClassifier asks a Gemini model for a CLC code. It is constructed
// lazily so that catalogs without an API key never touch the network.
type GenAIClassifier struct {
	client *genai.Client
	model  string
}

// NewGenAIClassifier builds a Gemini-backed classifier from the GEMINI_API_KEY
// environment variable. It returns (nil, nil) when no key is set so callers
// can fall through to the rule tier without special-casing.
func NewGenAIClassifier(ctx context.Context, model string) (*GenAIClassifier, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil
	}
	if model == "" {
		model = DefaultLLMModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClassifier{client: client, model: model}, nil
}

// Classify prompts the model with the catalog entry and parses a single CLC
// code from the reply. An empty or unparseable reply reports ok=false.
func (g *GenAIClassifier) Classify(ctx context.Context, in Input) (string, bool, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(in), genai.RoleUser),
	}

	temp := float32(0.2)
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return "", false, fmt.Errorf("GenAI classify failed: %w", err)
	}

	text := strings.ToUpper(strings.TrimSpace(result.Text()))
	code := clcRe.FindString(text)
	if code == "" {
		return "", false, nil
	}
	return code, true, nil
}

func buildPrompt(in Input) string {
	codes := make([]string, 0, len(Labels))
	for code := range Labels {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var candidates strings.Builder
	for i, code := range codes {
		if i > 0 {
			candidates.WriteString(", ")
		}
		fmt.Fprintf(&candidates, "%s:%s", code, Labels[code])
	}

	return fmt.Sprintf(`你是图书馆编目员，请根据《中图法》给出图书门类代码（仅给出代码，不要解释）。
候选门类：%s

标题: %s
作者: %s
摘要: %s

仅输出一个代码，例如：T 或 TP 或 TP3；若无法判断请输出 Z。`,
		candidates.String(), in.Title, strings.Join(in.Authors, ", "), in.Summary)
}
