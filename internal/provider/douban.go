// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"bookmeta-cli/internal/catalog"
)

const doubanBase = "https://book.douban.com"

var (
	doubanSubjectRe = regexp.MustCompile(`https://book\.douban\.com/subject/\d+/`)
	doubanTitleTail = regexp.MustCompile(`\s*\(豆瓣.*?\)\s*$`)

	infoAuthorRe    = regexp.MustCompile(`作者[:：]\s*(.+)`)
	infoPublisherRe = regexp.MustCompile(`出版社[:：]\s*(.+)`)
	infoYearRe      = regexp.MustCompile(`出版年[:：]\s*(.+)`)
	infoPagesRe     = regexp.MustCompile(`页数[:：]\s*(\d+)`)
	infoISBNRe      = regexp.MustCompile(`ISBN[:：]\s*([0-9Xx\-]+)`)
	infoCIPRe       = regexp.MustCompile(`(?i)(?:CIP|中图法分类号)[:：]?\s*([A-Z][A-Z0-9.\-]+)`)
	yearDigitsRe    = regexp.MustCompile(`(19|20)\d{2}`)
	authorSplitRe   = regexp.MustCompile(`[、,，/;；]| +`)
)

// Douban scrapes book.douban.com. The JSON suggest endpoint is tried first
// for searches; the HTML search page is a fallback. Detail pages are parsed
// from the #info block.
type Douban struct {
	client *Client
	base   string
	bid    string
}

// NewDouban returns a Douban provider on the shared client. A random bid
// cookie makes the site far more likely to answer 200.
func NewDouban(client *Client) *Douban {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 11)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return &Douban{client: client, base: doubanBase, bid: string(b)}
}

func (d *Douban) Site() string { return "douban" }

func (d *Douban) headers() map[string]string {
	return map[string]string{
		"Accept-Language": "zh-CN,zh;q=0.9",
		"Referer":         d.base + "/",
		"Cookie":          fmt.Sprintf("bid=%s;", d.bid),
	}
}

func (d *Douban) Search(ctx context.Context, query string) ([]catalog.SearchResult, error) {
	if res, err := d.suggest(ctx, query); err == nil && len(res) > 0 {
		return res, nil
	}
	return d.searchHTML(ctx, query)
}

type doubanSuggestion struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	SubTitle string `json:"sub_title"`
	Author   string `json:"author"`
}

func (d *Douban) suggest(ctx context.Context, query string) ([]catalog.SearchResult, error) {
	u := fmt.Sprintf("%s/j/subject_suggest?q=%s", d.base, url.QueryEscape(query))
	body, _, err := d.client.GetFast(ctx, u, d.headers())
	if err != nil {
		return nil, err
	}

	var arr []doubanSuggestion
	if err := json.Unmarshal(body, &arr); err != nil {
		return nil, fmt.Errorf("decode douban suggest: %w", err)
	}

	var out []catalog.SearchResult
	for _, it := range arr {
		if it.Type != "b" {
			continue
		}
		title := strings.TrimSpace(it.Title)
		if title == "" {
			title = strings.TrimSpace(it.SubTitle)
		}
		if it.ID == "" || title == "" {
			continue
		}
		out = append(out, catalog.SearchResult{
			Title:   title,
			Authors: splitAuthors(it.Author),
			URL:     fmt.Sprintf("%s/subject/%s/", d.base, it.ID),
		})
		if len(out) >= 5 {
			break
		}
	}
	return out, nil
}

func (d *Douban) searchHTML(ctx context.Context, query string) ([]catalog.SearchResult, error) {
	u := fmt.Sprintf("%s/subject_search?search_text=%s&cat=1001", d.base, url.QueryEscape(query))
	body, _, err := d.client.GetFast(ctx, u, d.headers())
	if err != nil {
		return nil, err
	}

	var out []catalog.SearchResult
	seen := map[string]bool{}
	for _, su := range doubanSubjectRe.FindAllString(string(body), -1) {
		if seen[su] {
			continue
		}
		seen[su] = true
		detail, err := d.GetDetail(ctx, su)
		if err != nil {
			continue
		}
		out = append(out, catalog.SearchResult{
			Title:   detail.Title,
			Authors: detail.Authors,
			URL:     su,
			ISBN:    detail.ISBN,
		})
		if len(out) >= 5 {
			break
		}
	}
	return out, nil
}

func (d *Douban) GetByISBN(ctx context.Context, isbn string) (*catalog.Detail, error) {
	u := fmt.Sprintf("%s/isbn/%s/", d.base, url.PathEscape(isbn))
	body, finalURL, err := d.client.Get(ctx, u, d.headers())
	if err != nil {
		return nil, err
	}

	// The ISBN endpoint redirects to a subject page. If it landed anywhere
	// else, fall back to searching the ISBN as a query.
	if !strings.Contains(finalURL, "/subject/") {
		results, err := d.Search(ctx, isbn)
		if err != nil || len(results) == 0 {
			return nil, ErrNotFound
		}
		detail, err := d.GetDetail(ctx, results[0].URL)
		if err != nil {
			return nil, err
		}
		if detail.ISBN == "" {
			detail.ISBN = isbn
		}
		return detail, nil
	}

	detail, err := d.parseDetail(body, finalURL)
	if err != nil {
		return nil, err
	}
	if detail.ISBN == "" {
		detail.ISBN = isbn
	}
	return detail, nil
}

func (d *Douban) GetDetail(ctx context.Context, detailURL string) (*catalog.Detail, error) {
	body, finalURL, err := d.client.Get(ctx, detailURL, d.headers())
	if err != nil {
		return nil, err
	}
	return d.parseDetail(body, finalURL)
}

func (d *Douban) parseDetail(body []byte, pageURL string) (*catalog.Detail, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse douban page: %w", err)
	}

	detail := &catalog.Detail{
		Language:  "中文",
		SourceURL: pageURL,
	}

	// Title: the span inside h1, falling back to the page title with the
	// site suffix stripped.
	if h1 := findNode(doc, matchTag("h1")); h1 != nil {
		if span := findNode(h1, matchTag("span")); span != nil {
			detail.Title = strings.TrimSpace(nodeText(span))
		}
	}
	if detail.Title == "" {
		if tt := findNode(doc, matchTag("title")); tt != nil {
			detail.Title = doubanTitleTail.ReplaceAllString(strings.TrimSpace(nodeText(tt)), "")
		}
	}

	if info := findNode(doc, matchID("info")); info != nil {
		parseInfoBlock(infoText(info), detail)
	}

	// Summary lives in an .intro div under #link-report or .related_info.
	if report := findNode(doc, matchID("link-report")); report != nil {
		if intro := findNode(report, matchClass("intro")); intro != nil {
			detail.Summary = strings.TrimSpace(nodeText(intro))
		}
	}
	if detail.Summary == "" {
		if related := findNode(doc, matchClass("related_info")); related != nil {
			if intro := findNode(related, matchClass("intro")); intro != nil {
				detail.Summary = strings.TrimSpace(nodeText(intro))
			}
		}
	}

	if mainpic := findNode(doc, matchID("mainpic")); mainpic != nil {
		if img := findNode(mainpic, matchTag("img")); img != nil {
			detail.CoverURL = getAttr(img, "src")
		}
	}

	return detail, nil
}

// parseInfoBlock extracts the labeled fields from the #info text, where each
// label sits on its own line.
func parseInfoBlock(text string, detail *catalog.Detail) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case detail.Authors == nil && infoAuthorRe.MatchString(line):
			detail.Authors = splitAuthors(infoAuthorRe.FindStringSubmatch(line)[1])
		case detail.Publisher == "" && infoPublisherRe.MatchString(line):
			detail.Publisher = strings.TrimSpace(infoPublisherRe.FindStringSubmatch(line)[1])
		case detail.PubYear == 0 && infoYearRe.MatchString(line):
			if m := yearDigitsRe.FindString(infoYearRe.FindStringSubmatch(line)[1]); m != "" {
				if y, err := strconv.Atoi(m); err == nil {
					detail.PubYear = y
				}
			}
		case detail.Pages == 0 && infoPagesRe.MatchString(line):
			if p, err := strconv.Atoi(infoPagesRe.FindStringSubmatch(line)[1]); err == nil {
				detail.Pages = p
			}
		case detail.ISBN == "" && infoISBNRe.MatchString(line):
			detail.ISBN = strings.ToUpper(strings.ReplaceAll(infoISBNRe.FindStringSubmatch(line)[1], "-", ""))
		case detail.CIP == "" && infoCIPRe.MatchString(line):
			detail.CIP = strings.ToUpper(infoCIPRe.FindStringSubmatch(line)[1])
		}
	}
}

func splitAuthors(s string) []string {
	var out []string
	for _, a := range authorSplitRe.Split(strings.TrimSpace(s), -1) {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// --- node helpers ---

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func matchTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func matchID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && getAttr(n, "id") == id
	}
}

func matchClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, c := range strings.Fields(getAttr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates the text nodes under n, space separated.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// infoText renders the #info block with newlines between elements so the
// per-line label regexes can work on it.
func infoText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
			}
		}
		if n.Type == html.ElementNode && (n.Data == "br" || n.Data == "span" || n.Data == "div") {
			sb.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
