package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/prolifichq/prolific/internal/engine"
)

// RulesFile is the TOML shape of the user-editable classification table.
// Mapping order matters: later rules override earlier ones.
type RulesFile struct {
	Mapping []MappingRule `toml:"mapping"`
	// Ignore lists categories excluded from focus scoring.
	Ignore []string `toml:"ignore"`
	// Deep lists deep-work categories; Passive lists productive
	// categories that don't involve heavy typing.
	Deep    []string   `toml:"deep"`
	Passive []string   `toml:"passive"`
	Groups  [][]string `toml:"groups"`
}

// MappingRule is one pattern -> category entry.
type MappingRule struct {
	Pattern  string `toml:"pattern"`
	Category string `toml:"category"`
}

// Rules is the compiled classification configuration consumed by the
// engine. It is built once at startup and read-only afterwards.
type Rules struct {
	Classifier *engine.Classifier
	Ignored    map[string]bool
	Deep       []string
	Passive    []string
	// DeepSet is Deep plus Passive, the set used by focus and hacking
	// analyses.
	DeepSet map[string]bool
	Groups  [][]string
}

// LoadRules reads the TOML rules file at path. A missing file is not an
// error: the built-in table applies. A present but malformed file is an
// error naming the bad rule, so the user can fix it.
func LoadRules(path string) (*Rules, error) {
	file := RulesFile{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &file); err != nil {
				return nil, fmt.Errorf("decoding rules file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading rules file %s: %w", path, err)
		}
	}
	return buildRules(file)
}

func buildRules(file RulesFile) (*Rules, error) {
	pairs := engine.DefaultRulePairs()
	if len(file.Mapping) > 0 {
		pairs = make([][2]string, 0, len(file.Mapping))
		for _, m := range file.Mapping {
			pairs = append(pairs, [2]string{m.Pattern, m.Category})
		}
	}
	classifier, err := engine.NewClassifier(pairs)
	if err != nil {
		return nil, err
	}

	ignore := file.Ignore
	if len(ignore) == 0 {
		for c := range engine.DefaultIgnoredCategories() {
			ignore = append(ignore, c)
		}
	}
	deep := file.Deep
	if len(deep) == 0 {
		deep = engine.DefaultDeepCategories()
	}
	passive := file.Passive
	if len(passive) == 0 {
		passive = engine.DefaultPassiveDeepCategories()
	}
	groups := file.Groups
	if len(groups) == 0 {
		groups = engine.DefaultDisplayGroups()
	}

	return &Rules{
		Classifier: classifier,
		Ignored:    engine.CategorySet(ignore),
		Deep:       deep,
		Passive:    passive,
		DeepSet:    engine.CategorySet(deep, passive),
		Groups:     groups,
	}, nil
}
