package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// tablesFromConfig reads a table filter from viper. The result is
// normalized so the backup service sees clean names regardless of how
// the flag was spelled.
func tablesFromConfig(key string) []string {
	return normalizeTables(viper.GetStringSlice(key))
}

// normalizeTables lowercases table names and drops blanks and
// duplicates, preserving first-seen order. nil means no filter.
func normalizeTables(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		name := strings.ToLower(strings.TrimSpace(value))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}
