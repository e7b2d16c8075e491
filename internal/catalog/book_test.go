// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"reflect"
	"testing"
)

func TestBook_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		book    Book
		wantErr bool
	}{
		{name: "valid minimal", book: Book{Title: "文明简史"}},
		{name: "valid with isbn", book: Book{Title: "算法导论", ISBN: "9787111187776"}},
		{name: "missing title", book: Book{ISBN: "9787111187776"}, wantErr: true},
		{name: "isbn too short", book: Book{Title: "x", ISBN: "123"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.book.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBook_AuthorList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		authors  string
		expected []string
	}{
		{name: "empty", authors: "", expected: nil},
		{name: "single", authors: "鲁迅", expected: []string{"鲁迅"}},
		{name: "multiple with spaces", authors: "钱锺书, 杨绛", expected: []string{"钱锺书", "杨绛"}},
		{name: "trailing comma", authors: "a,b,", expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := (&Book{Authors: tt.authors}).AuthorList()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("AuthorList() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNormalizeISBN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected string
	}{
		{"978-7-111-18777-6", "9787111187776"},
		{" 7 5327 3248 x ", "753273248X"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeISBN(tt.in); got != tt.expected {
			t.Errorf("NormalizeISBN(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestSameISBN(t *testing.T) {
	t.Parallel()

	if !SameISBN("978-7-111-18777-6", "9787111187776") {
		t.Error("dashed and bare forms should match")
	}
	if SameISBN("", "") {
		t.Error("empty ISBNs must never match")
	}
	if SameISBN("9787111187776", "9787111128069") {
		t.Error("different ISBNs must not match")
	}
}
