package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestHarvestConfigDefaults(t *testing.T) {
	cfg, err := harvestConfig(newViper())
	require.NoError(t, err)

	want := types.DefaultHarvestConfig()
	assert.Equal(t, want, cfg)
}

func TestHarvestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubmed-export.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
page_size: 50
output: out/cartilage.xlsx
timeout: 15s
on_malformed: fail-fast
term_groups:
  - [osteoarthritis]
  - [BMP-7, "bone morphogenetic protein 7"]
`), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := harvestConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "out/cartilage.xlsx", cfg.OutputFile)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, types.PolicyFailFast, cfg.OnMalformed)
	assert.Equal(t, [][]string{{"osteoarthritis"}, {"BMP-7", "bone morphogenetic protein 7"}}, cfg.TermGroups)
	assert.Equal(t, types.DefaultBaseURL, cfg.BaseURL)
}

func TestHarvestConfigFlagsOverride(t *testing.T) {
	flags := pflag.NewFlagSet("harvest", pflag.ContinueOnError)
	flags.String("term", "", "")
	flags.Int("page-size", 200, "")
	flags.Bool("open", false, "")
	require.NoError(t, flags.Parse([]string{"--term", "joints AND gene", "--page-size", "20", "--open"}))

	v := newViper()
	require.NoError(t, bindFlags(v, flags, keyTerm, keyPageSize, keyOpenBrowser))

	cfg, err := harvestConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "joints AND gene", cfg.Term)
	assert.Equal(t, 20, cfg.PageSize)
	assert.True(t, cfg.OpenBrowser)
}

func TestBindFlagsMissingFlag(t *testing.T) {
	flags := pflag.NewFlagSet("x", pflag.ContinueOnError)
	err := bindFlags(newViper(), flags, keyArchive)
	assert.ErrorContains(t, err, `no flag "archive"`)
}

func TestHarvestConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"unknown policy", keyOnMalformed, "ignore"},
		{"zero page size", keyPageSize, 0},
		{"empty output", keyOutput, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.val)
			_, err := harvestConfig(v)
			assert.Error(t, err)
		})
	}
}

func TestPrintRecords(t *testing.T) {
	kw := "gene,chondrocyte"
	records := []types.Record{
		{Title: "A", Link: "https://pubmed.ncbi.nlm.nih.gov/1/", Keywords: &kw},
		{Title: "B", Link: "https://pubmed.ncbi.nlm.nih.gov/2/"},
	}

	var buf bytes.Buffer
	require.NoError(t, printRecords(records, "json", &buf))
	assert.Contains(t, buf.String(), `"keywords": "gene,chondrocyte"`)
	assert.Equal(t, 1, strings.Count(buf.String(), `"keywords"`), "absent keywords are omitted")

	buf.Reset()
	require.NoError(t, printRecords(records, "yaml", &buf))
	assert.Contains(t, buf.String(), "keywords: gene,chondrocyte")
	assert.Contains(t, buf.String(), "- title: B")

	buf.Reset()
	require.NoError(t, printRecords(nil, "json", &buf))
	assert.Equal(t, "[]\n", buf.String())

	assert.Error(t, printRecords(records, "csv", &buf))
}
