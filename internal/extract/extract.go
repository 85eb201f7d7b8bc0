// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a PubMed search-result page into typed records.
//
// The selectors below are coupled to PubMed's result markup. They are an
// external contract: when PubMed changes its page shape, extraction fails
// per article (see MalformedRecordError) rather than degrading silently.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

const (
	// ArticleSelector matches one search-result entry.
	ArticleSelector = ".results-article"

	// TitleSelector matches the article heading inside an entry.
	TitleSelector = "h1.heading-title"

	// AnchorSelector matches the article link inside the heading.
	AnchorSelector = "a"

	// KeywordsSelector matches the keyword paragraph of the abstract block.
	KeywordsSelector = ".abstract > p"
)

// keywordNoise matches everything stripped from a keyword paragraph: runs of
// two or more spaces (removed, not collapsed to one), newlines, periods and
// the "Keywords:" label.
var keywordNoise = regexp.MustCompile(`[ ]{2,}|\n|\.|Keywords:`)

// Parser extracts records from result pages. A Parser is not safe for
// concurrent use; the skip counter belongs to the most recent Parse.
type Parser struct {
	base    *url.URL
	policy  types.MalformedPolicy
	logger  zerolog.Logger
	skipped int
}

// Option configures a Parser.
type Option func(*Parser)

// WithPolicy selects the malformed-article policy.
func WithPolicy(p types.MalformedPolicy) Option {
	return func(ps *Parser) { ps.policy = p }
}

// WithLogger sets the logger that receives skipped-article warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(ps *Parser) { ps.logger = l }
}

// New returns a Parser that resolves article links against baseURL.
// The default policy is types.PolicySkip and the default logger discards.
func New(baseURL string, opts ...Option) (*Parser, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	p := &Parser{
		base:   base,
		policy: types.PolicySkip,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Skipped returns how many malformed articles the last Parse skipped.
func (p *Parser) Skipped() int {
	return p.skipped
}

// Parse returns a lazy, single-pass sequence of the records in document.
// The HTML tree is built when iteration starts; each article node is
// visited once, in document order.
//
// A page with no article nodes yields nothing. Under PolicyFailFast the
// first malformed article yields a *MalformedRecordError and ends the
// sequence; under PolicySkip it is logged, counted and passed over. A
// document that cannot be parsed yields a single error.
func (p *Parser) Parse(document []byte) iter.Seq2[types.Record, error] {
	return func(yield func(types.Record, error) bool) {
		p.skipped = 0

		root, err := html.Parse(bytes.NewReader(document))
		if err != nil {
			yield(types.Record{}, fmt.Errorf("parsing HTML: %w", err))
			return
		}
		doc := goquery.NewDocumentFromNode(root)

		doc.Find(ArticleSelector).EachWithBreak(func(i int, article *goquery.Selection) bool {
			rec, err := p.parseArticle(i, article)
			if err != nil {
				if p.policy == types.PolicyFailFast {
					yield(types.Record{}, err)
					return false
				}
				p.skipped++
				p.logger.Warn().Err(err).Int("article", i).Msg("skipping malformed article")
				return true
			}
			return yield(rec, nil)
		})
	}
}

// ParseReader reads the whole document from r and returns Parse's sequence.
func (p *Parser) ParseReader(r io.Reader) (iter.Seq2[types.Record, error], error) {
	document, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return p.Parse(document), nil
}

func (p *Parser) parseArticle(i int, article *goquery.Selection) (types.Record, error) {
	heading := article.Find(TitleSelector).First()
	if heading.Length() == 0 {
		return types.Record{}, &MalformedRecordError{Index: i, Field: FieldTitle, Reason: "no " + TitleSelector + " element"}
	}
	title := CleanTitle(heading.Text())
	if title == "" {
		return types.Record{}, &MalformedRecordError{Index: i, Field: FieldTitle, Reason: "heading text is empty"}
	}

	anchor := heading.Find(AnchorSelector).First()
	if anchor.Length() == 0 {
		return types.Record{}, &MalformedRecordError{Index: i, Field: FieldLink, Reason: "no anchor under heading"}
	}
	href, ok := anchor.Attr("href")
	if !ok {
		return types.Record{}, &MalformedRecordError{Index: i, Field: FieldLink, Reason: "anchor has no href"}
	}
	link, err := p.ResolveLink(href)
	if err != nil {
		return types.Record{}, &MalformedRecordError{Index: i, Field: FieldLink, Reason: err.Error()}
	}

	rec := types.Record{Title: title, Link: link}
	if para := article.Find(KeywordsSelector).First(); para.Length() > 0 {
		kw := CleanKeywords(para.Text())
		rec.Keywords = &kw
	}
	return rec, nil
}

// ResolveLink resolves href against the parser's base URL. Absolute hrefs
// come back unchanged, so resolving a resolved link is a no-op.
func (p *Parser) ResolveLink(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("href is empty")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing href %q: %w", href, err)
	}
	return p.base.ResolveReference(ref).String(), nil
}

// CleanTitle removes every newline from a heading text and trims the result.
func CleanTitle(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", ""))
}

// CleanKeywords strips double-space runs, newlines, periods and the
// "Keywords:" label from a keyword paragraph, then turns the semicolon
// separators into commas.
func CleanKeywords(s string) string {
	return strings.ReplaceAll(keywordNoise.ReplaceAllString(s, ""), ";", ",")
}

// Collect drains seq into a slice. It returns the records gathered before
// the first error together with that error.
func Collect(seq iter.Seq2[types.Record, error]) ([]types.Record, error) {
	var records []types.Record
	for rec, err := range seq {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}
