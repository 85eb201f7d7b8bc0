package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

// Viper keys for HarvestConfig fields.
const (
	keyBaseURL     = "base_url"
	keyPageSize    = "page_size"
	keyTerm        = "term"
	keyTermGroups  = "term_groups"
	keyFilter      = "filter"
	keyFormat      = "format"
	keyOutput      = "output"
	keyTimeout     = "timeout"
	keyUserAgent   = "user_agent"
	keyOnMalformed = "on_malformed"
	keyOpenBrowser = "open_browser"
	keyArchive     = "archive"
)

// setDefaults registers the built-in defaults so env vars and config files
// can override each key.
func setDefaults(v *viper.Viper) {
	d := types.DefaultHarvestConfig()
	v.SetDefault(keyBaseURL, d.BaseURL)
	v.SetDefault(keyPageSize, d.PageSize)
	v.SetDefault(keyTerm, "")
	v.SetDefault(keyTermGroups, d.TermGroups)
	v.SetDefault(keyFilter, d.Filter)
	v.SetDefault(keyFormat, d.Format)
	v.SetDefault(keyOutput, d.OutputFile)
	v.SetDefault(keyTimeout, d.Timeout)
	v.SetDefault(keyUserAgent, d.UserAgent)
	v.SetDefault(keyOnMalformed, string(d.OnMalformed))
	v.SetDefault(keyOpenBrowser, false)
	v.SetDefault(keyArchive, "")
}

// bindFlags binds command flags to their viper keys. Flag names use dashes,
// keys use underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...string) error {
	for _, key := range keys {
		name := strings.ReplaceAll(key, "_", "-")
		if key == keyOpenBrowser {
			name = "open"
		}
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("no flag %q for config key %q", name, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %q: %w", name, err)
		}
	}
	return nil
}

// harvestConfig builds the immutable run configuration from v.
func harvestConfig(v *viper.Viper) (types.HarvestConfig, error) {
	cfg := types.DefaultHarvestConfig()

	cfg.BaseURL = v.GetString(keyBaseURL)
	cfg.PageSize = v.GetInt(keyPageSize)
	cfg.Term = v.GetString(keyTerm)
	cfg.Filter = v.GetString(keyFilter)
	cfg.Format = v.GetString(keyFormat)
	cfg.OutputFile = v.GetString(keyOutput)
	cfg.Timeout = v.GetDuration(keyTimeout)
	cfg.UserAgent = v.GetString(keyUserAgent)
	cfg.OpenBrowser = v.GetBool(keyOpenBrowser)
	cfg.ArchivePath = v.GetString(keyArchive)

	var groups [][]string
	if err := v.UnmarshalKey(keyTermGroups, &groups); err != nil {
		return types.HarvestConfig{}, fmt.Errorf("reading %s: %w", keyTermGroups, err)
	}
	cfg.TermGroups = groups

	policy, err := types.ParseMalformedPolicy(v.GetString(keyOnMalformed))
	if err != nil {
		return types.HarvestConfig{}, err
	}
	cfg.OnMalformed = policy

	if err := cfg.Validate(); err != nil {
		return types.HarvestConfig{}, err
	}
	return cfg, nil
}
