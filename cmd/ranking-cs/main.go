// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ranking-cs CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sociometrica/ranking-cs/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the ranking-cs CLI.
var rootCmd = &cobra.Command{
	Use:   "ranking-cs",
	Short: "Bibliometric ranking of Chilean social science researchers",
	Long: `ranking-cs builds the ranking of Chilean social science researchers from
public bibliometric data. It harvests candidate authors from OpenAlex,
fetches Google Scholar profiles for a curated seed list, stores each run
as a snapshot, and exports the ranked table as CSV, XLSX, and the JSON
consumed by the ranking web page.

Each pipeline stage is a subcommand: harvest, fetch, rank, and export.
The update command chains them into one run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ranking-cs.yaml or ~/.config/ranking-cs/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "snapshot database path (default: data/ranking.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ranking-cs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ranking-cs"))
		}
	}

	viper.SetEnvPrefix("RANKING_CS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
