// SPDX-License-Identifier: MPL-2.0

package nlp

import (
	"reflect"
	"testing"
)

func TestCleanLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "empty", in: "", expected: ""},
		{name: "plain", in: "文明简史", expected: "文明简史"},
		{name: "brackets removed", in: "【精装】万历十五年", expected: "万历十五年"},
		{name: "ascii brackets removed", in: "Dune (40th Anniversary)", expected: "Dune"},
		{name: "leading numbering dot", in: "1. 文明简史", expected: "文明简史"},
		{name: "leading numbering cjk", in: "3、围城 钱锺书", expected: "围城 钱锺书"},
		{name: "separators unified", in: "阿城/王朔、刘震云", expected: "阿城 王朔 刘震云"},
		{name: "fullwidth space and tab", in: "围城　钱锺书\t著", expected: "围城 钱锺书 著"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CleanLine(tt.in); got != tt.expected {
				t.Errorf("CleanLine(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestFindISBN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "empty", in: "", expected: ""},
		{name: "bare isbn13", in: "9787111187776", expected: "9787111187776"},
		{name: "dashed isbn13", in: "ISBN 978-7-111-18777-6", expected: "9787111187776"},
		{name: "isbn10 with x", in: "753273248x", expected: "753273248X"},
		{name: "embedded in query", in: "算法导论 9787111187776 第二版", expected: "9787111187776"},
		{name: "no isbn", in: "围城 钱锺书", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FindISBN(tt.in); got != tt.expected {
				t.Errorf("FindISBN(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestSplitTitleAuthor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		in          string
		wantTitle   string
		wantAuthors []string
	}{
		{name: "empty", in: "", wantTitle: "", wantAuthors: nil},
		{
			name:        "role suffix",
			in:          "围城 钱锺书著",
			wantTitle:   "围城",
			wantAuthors: []string{"钱锺书"},
		},
		{
			name:        "colon separator with suffix",
			in:          "乡土中国：费孝通著",
			wantTitle:   "乡土中国",
			wantAuthors: []string{"费孝通"},
		},
		{
			name:        "parenthesized author",
			in:          "活着（余华）",
			wantTitle:   "活着",
			wantAuthors: []string{"余华"},
		},
		{
			name:        "paren after author is not the author",
			in:          "万历十五年 黄仁宇（增订本）",
			wantTitle:   "万历十五年",
			wantAuthors: []string{"黄仁宇"},
		},
		{
			name:        "last token fallback",
			in:          "百年孤独 马尔克斯",
			wantTitle:   "百年孤独",
			wantAuthors: []string{"马尔克斯"},
		},
		{
			name:        "book title marks trimmed",
			in:          "《三体》 刘慈欣",
			wantTitle:   "三体",
			wantAuthors: []string{"刘慈欣"},
		},
		{
			name:      "book title marks trimmed without author",
			in:        "《时间简史》",
			wantTitle: "时间简史",
		},
		{
			name:      "title only",
			in:        "时间简史",
			wantTitle: "时间简史",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			title, authors := SplitTitleAuthor(tt.in)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if !reflect.DeepEqual(authors, tt.wantAuthors) {
				t.Errorf("authors = %v, want %v", authors, tt.wantAuthors)
			}
		})
	}
}

func TestDedupAuthors(t *testing.T) {
	t.Parallel()

	got := DedupAuthors([]string{"钱锺书著", " 钱锺书 ", "", "杨绛 译"})
	want := []string{"钱锺书", "杨绛"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupAuthors() = %v, want %v", got, want)
	}
}
