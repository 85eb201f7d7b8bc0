// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed builds the PubMed search request and fetches the single
// result page the extractor consumes.
package pubmed

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

// BuildTerm joins OR-groups of search terms with AND, parenthesizing each
// group: [[a b] [c]] becomes "(a OR b) AND (c)". Blank terms and empty
// groups are dropped.
func BuildTerm(groups [][]string) string {
	var parts []string
	for _, g := range groups {
		var terms []string
		for _, t := range g {
			if t = strings.TrimSpace(t); t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) == 0 {
			continue
		}
		parts = append(parts, "("+strings.Join(terms, " OR ")+")")
	}
	return strings.Join(parts, " AND ")
}

// Term returns the search expression for cfg: the literal Term when set,
// otherwise the expression built from TermGroups.
func Term(cfg types.HarvestConfig) string {
	if t := strings.TrimSpace(cfg.Term); t != "" {
		return t
	}
	return BuildTerm(cfg.TermGroups)
}

// QueryURL returns the result-page URL for cfg.
func QueryURL(cfg types.HarvestConfig) (string, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", cfg.BaseURL, err)
	}
	term := Term(cfg)
	if term == "" {
		return "", fmt.Errorf("search term is empty")
	}

	q := url.Values{}
	q.Set("term", term)
	if cfg.Filter != "" {
		q.Set("filter", cfg.Filter)
	}
	if cfg.Format != "" {
		q.Set("format", cfg.Format)
	}
	if cfg.PageSize > 0 {
		q.Set("size", strconv.Itoa(cfg.PageSize))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
