package types

import (
	"fmt"
	"strings"
	"time"
)

// Defaults mirror the fixed constants of the PubMed export this tool
// replaces. Every one of them can be overridden through HarvestConfig.
const (
	DefaultBaseURL    = "https://pubmed.ncbi.nlm.nih.gov/"
	DefaultPageSize   = 200
	DefaultFilter     = "datesearch.y_10"
	DefaultFormat     = "abstract"
	DefaultOutputFile = "ncbi.xlsx"
	DefaultUserAgent  = "pubmed-export/0.1"
	DefaultTimeout    = 60 * time.Second
)

// DefaultTermGroups is the search expression as OR-groups joined by AND:
// (osteoarthritis OR oa) AND (hyaline cartilage) AND (gene) AND
// (signaling pathway) AND (chondrocyte).
var DefaultTermGroups = [][]string{
	{"osteoarthritis", "oa"},
	{"hyaline cartilage"},
	{"gene"},
	{"signaling pathway"},
	{"chondrocyte"},
}

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MalformedPolicy selects what the extractor does with an article node that
// lacks its title heading or link anchor.
type MalformedPolicy string

const (
	// PolicySkip logs the malformed article, counts it, and continues.
	PolicySkip MalformedPolicy = "skip"

	// PolicyFailFast stops extraction at the first malformed article.
	PolicyFailFast MalformedPolicy = "fail-fast"
)

// ParseMalformedPolicy validates a policy name. The empty string selects PolicySkip.
func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch MalformedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyFailFast:
		return PolicyFailFast, nil
	default:
		return "", fmt.Errorf("unknown malformed-record policy %q (want %q or %q)", s, PolicySkip, PolicyFailFast)
	}
}

// HarvestConfig is the immutable configuration for one harvest run. It is
// built once at process start and passed to every stage.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the search service root. Requests go to it and relative
	// article links are resolved against it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PageSize is the number of results requested on the single page.
	PageSize int `json:"page_size" yaml:"page_size"`

	// Term is a literal search expression. When empty, TermGroups is used.
	Term string `json:"term,omitempty" yaml:"term,omitempty"`

	// TermGroups is the search expression as OR-groups joined by AND.
	TermGroups [][]string `json:"term_groups,omitempty" yaml:"term_groups,omitempty"`

	// Filter is the PubMed result filter (e.g. "datesearch.y_10").
	Filter string `json:"filter" yaml:"filter"`

	// Format is the PubMed result display format. The extractor expects
	// "abstract", which renders the keyword paragraph inline.
	Format string `json:"format" yaml:"format"`

	// OutputFile is the spreadsheet destination. Each run overwrites it.
	OutputFile string `json:"output_file" yaml:"output_file"`

	// OnMalformed selects the malformed-article policy.
	OnMalformed MalformedPolicy `json:"on_malformed" yaml:"on_malformed"`

	// OpenBrowser opens the query URL in a browser after the fetch.
	OpenBrowser bool `json:"open_browser" yaml:"open_browser"`

	// ArchivePath, when set, is a SQLite database that receives a copy of
	// every harvested record.
	ArchivePath string `json:"archive_path,omitempty" yaml:"archive_path,omitempty"`
}

// DefaultHarvestConfig returns a configuration populated with the defaults.
func DefaultHarvestConfig() HarvestConfig {
	groups := make([][]string, len(DefaultTermGroups))
	for i, g := range DefaultTermGroups {
		groups[i] = append([]string(nil), g...)
	}
	return HarvestConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		BaseURL:     DefaultBaseURL,
		PageSize:    DefaultPageSize,
		TermGroups:  groups,
		Filter:      DefaultFilter,
		Format:      DefaultFormat,
		OutputFile:  DefaultOutputFile,
		OnMalformed: PolicySkip,
	}
}

// Validate reports the first configuration problem, if any.
func (c HarvestConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base URL is empty")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if strings.TrimSpace(c.Term) == "" && len(c.TermGroups) == 0 {
		return fmt.Errorf("search term is empty: set term or term_groups")
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		return fmt.Errorf("output file is empty")
	}
	if _, err := ParseMalformedPolicy(string(c.OnMalformed)); err != nil {
		return err
	}
	return nil
}
