// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/sociometrica/ranking-cs/internal/rank"
	"github.com/sociometrica/ranking-cs/pkg/types"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRequestDelay = 5 * time.Second
	defaultRetryDelay   = 10 * time.Second
	defaultMaxRetries   = 3
	defaultPageDelay    = 50 * time.Millisecond
	defaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	defaultDBPath       = "data/ranking.db"
	defaultOutputDir    = "data/output"
	defaultBaseName     = "ranking_cs"
)

// Precedence for every setting: flag, then config file / environment,
// then built-in default.

func durationSetting(flagVal time.Duration, key string, fallback time.Duration) time.Duration {
	if flagVal > 0 {
		return flagVal
	}
	if v := viper.GetDuration(key); v > 0 {
		return v
	}
	return fallback
}

func intSetting(flagVal int, key string, fallback int) int {
	if flagVal > 0 {
		return flagVal
	}
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

func stringSetting(flagVal, key, fallback string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func storeConfig() types.StoreConfig {
	path, _ := rootCmd.PersistentFlags().GetString("db")
	return types.StoreConfig{
		Path: stringSetting(path, "store.path", defaultDBPath),
	}
}

func httpConfig(timeout time.Duration) types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   durationSetting(timeout, "http.timeout", defaultTimeout),
		UserAgent: stringSetting("", "http.user_agent", defaultUserAgent),
	}
}

// rankingConfig starts from the curated built-in tables and replaces
// any list the config file sets explicitly.
func rankingConfig(minHIndex int) types.RankingConfig {
	cfg := rank.DefaultRankingConfig()
	cfg.MinHIndex = intSetting(minHIndex, "ranking.min_h_index", cfg.MinHIndex)

	if viper.IsSet("ranking.name_exclusions") {
		cfg.NameExclusions = viper.GetStringSlice("ranking.name_exclusions")
	}
	if viper.IsSet("ranking.affiliation_denylist") {
		cfg.AffiliationDenylist = viper.GetStringSlice("ranking.affiliation_denylist")
	}
	if viper.IsSet("ranking.field_exclusions") {
		cfg.FieldExclusions = viper.GetStringSlice("ranking.field_exclusions")
	}
	if viper.IsSet("ranking.known_scholar_ids") {
		cfg.KnownScholarIDs = viper.GetStringMapString("ranking.known_scholar_ids")
	}
	return cfg
}

func exportConfig(outputDir, baseName string) types.ExportConfig {
	return types.ExportConfig{
		OutputDir: stringSetting(outputDir, "export.output_dir", defaultOutputDir),
		BaseName:  stringSetting(baseName, "export.base_name", defaultBaseName),
	}
}
