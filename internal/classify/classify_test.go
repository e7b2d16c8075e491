// SPDX-License-Identifier: MPL-2.0

package classify

import (
	"context"
	"errors"
	"testing"
)

func TestClassifyCIPWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cip      string
		wantCode string
	}{
		{name: "subdivision head kept", cip: "TP391.1", wantCode: "TP3"},
		{name: "language class", cip: "H315.4", wantCode: "H31"},
		{name: "lowercase input", cip: "tp3", wantCode: "TP3"},
		{name: "short decimal form", cip: "I2.4", wantCode: "I2.4"},
		{name: "bare category letter", cip: "K", wantCode: "K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &Classifier{}
			got := c.Classify(context.Background(), Input{Title: "无关标题", CIP: tt.cip})
			if got.Source != SourceCIP {
				t.Fatalf("source = %s, want cip", got.Source)
			}
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Confidence != 0.95 {
				t.Errorf("confidence = %v, want 0.95", got.Confidence)
			}
		})
	}
}

type stubLLM struct {
	code string
	ok   bool
	err  error
}

func (s stubLLM) Classify(context.Context, Input) (string, bool, error) {
	return s.code, s.ok, s.err
}

func TestClassifyLLMTier(t *testing.T) {
	t.Parallel()

	t.Run("valid code from model", func(t *testing.T) {
		t.Parallel()
		c := &Classifier{LLM: stubLLM{code: "tp3", ok: true}}
		got := c.Classify(context.Background(), Input{Title: "某书"})
		if got.Source != SourceLLM {
			t.Fatalf("source = %s, want llm", got.Source)
		}
		if got.Code != "TP3" {
			t.Errorf("code = %q, want TP3", got.Code)
		}
		if got.Confidence != 0.85 {
			t.Errorf("confidence = %v, want 0.85", got.Confidence)
		}
	})

	t.Run("model declines falls through to rules", func(t *testing.T) {
		t.Parallel()
		c := &Classifier{LLM: stubLLM{ok: false}}
		got := c.Classify(context.Background(), Input{Title: "深度学习入门"})
		if got.Source != SourceRule {
			t.Errorf("source = %s, want rule", got.Source)
		}
	})

	t.Run("model error falls through to rules", func(t *testing.T) {
		t.Parallel()
		c := &Classifier{LLM: stubLLM{err: errors.New("quota exceeded")}}
		got := c.Classify(context.Background(), Input{Title: "深度学习入门"})
		if got.Source != SourceRule {
			t.Errorf("source = %s, want rule", got.Source)
		}
	})
}

func TestRuleBased(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       Input
		wantCode string
		wantConf float64
	}{
		{
			name:     "computer science keywords",
			in:       Input{Title: "人工智能导论", Summary: "介绍深度学习与算法基础，面向计算机专业。"},
			wantCode: "T",
			wantConf: 0.92,
		},
		{
			name:     "single literature hit",
			in:       Input{Title: "现代诗歌选"},
			wantCode: "I",
			wantConf: 0.65,
		},
		{
			name:     "history",
			in:       Input{Title: "中国史纲要", Summary: "一部通史著作"},
			wantCode: "K",
			wantConf: 0.8,
		},
		{
			name:     "no keywords at all",
			in:       Input{Title: "xyzzy"},
			wantCode: "A",
			wantConf: 0.55,
		},
		{
			name:     "empty input",
			in:       Input{},
			wantCode: "Z",
			wantConf: 0.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RuleBased(tt.in)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
			if got.Source != SourceRule {
				t.Errorf("source = %s, want rule", got.Source)
			}
		})
	}
}

func TestBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want string
	}{
		{"TP391.1", "科学技术类"},
		{"I247", "文学类"},
		{"K25", "历史类"},
		{"F0", "经济管理类"},
		{"C91", "社会政治类"},
		{"Z", "综合/知识类"},
		{"", "未分类"},
		{"M1", "未分类"},
	}
	for _, tt := range tests {
		if got := Bucket(tt.code); got != tt.want {
			t.Errorf("Bucket(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	if got := Label("TP391"); got != "工业技术" {
		t.Errorf("Label(TP391) = %q, want 工业技术", got)
	}
	if got := Label(""); got != "未知" {
		t.Errorf("Label(empty) = %q, want 未知", got)
	}
	if got := Label("M9"); got != "未知" {
		t.Errorf("Label(M9) = %q, want 未知", got)
	}
}
