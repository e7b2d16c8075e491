// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestParseCSVWithHeaders(t *testing.T) {
	t.Parallel()

	data := []byte("title,author,isbn\n三体,刘慈欣,9787536692930\n活着,余华,\n,,\n")
	queries, err := parseCSV(data)
	require.NoError(t, err)
	require.Equal(t, []string{"9787536692930", "活着 余华"}, queries)
}

func TestParseCSVChineseHeaders(t *testing.T) {
	t.Parallel()

	data := []byte("书名;作者\n围城;钱锺书\n")
	queries, err := parseCSV(data)
	require.NoError(t, err)
	require.Equal(t, []string{"围城 钱锺书"}, queries)
}

func TestParseCSVHeaderless(t *testing.T) {
	t.Parallel()

	data := []byte("围城 钱锺书著\n三体 刘慈欣\n")
	queries, err := parseCSV(data)
	require.NoError(t, err)
	require.Equal(t, []string{"围城 钱锺书著", "三体 刘慈欣"}, queries)
}

func TestParseCSVNormalizesAuthorSeparators(t *testing.T) {
	t.Parallel()

	data := []byte("title,author\nGo语言实战,威廉·肯尼迪/布赖恩·克特森\n")
	queries, err := parseCSV(data)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	require.Contains(t, queries[0], ",", "separators should be collapsed to commas")
}

func TestParseCSVUTF8BOM(t *testing.T) {
	t.Parallel()

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("title\n三体\n")...)
	queries, err := parseCSV(data)
	require.NoError(t, err)
	require.Equal(t, []string{"三体"}, queries)
}

func TestParseCSVGBKFallback(t *testing.T) {
	t.Parallel()

	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("书名,作者\n围城,钱锺书\n"))
	require.NoError(t, err)

	queries, err := parseCSV(gbk)
	require.NoError(t, err)
	require.Equal(t, []string{"围城 钱锺书"}, queries)
}

func TestParseLines(t *testing.T) {
	t.Parallel()

	data := []byte("# 待导入\n三体\n\n围城 钱锺书著\r\n")
	queries, err := parseLines(data)
	require.NoError(t, err)
	require.Equal(t, []string{"三体", "围城 钱锺书著"}, queries)
}

func TestSniffDelimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want rune
	}{
		{"a,b,c", ','},
		{"a;b;c", ';'},
		{"a\tb\tc", '\t'},
		{"a|b|c", '|'},
		{"single-column", ','},
	}
	for _, tt := range tests {
		if got := sniffDelimiter(tt.line); got != tt.want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
