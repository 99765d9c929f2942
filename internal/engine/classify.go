package engine

import (
	"fmt"
	"regexp"
)

// FallbackCategory is assigned to window titles no rule matches.
const FallbackCategory = "MISC"

// Rule maps window titles matching Pattern to Category.
type Rule struct {
	Pattern  *regexp.Regexp
	Category string
}

// Classifier maps raw window titles to semantic categories using an ordered
// rule list. Every rule is evaluated and the LAST matching rule wins; rule
// order is therefore a meaningful part of the configuration, letting later,
// more specific rules override earlier generic ones.
type Classifier struct {
	rules []Rule
}

// NewClassifier compiles the given pattern/category pairs into a Classifier.
// Patterns are Go regular expressions; a malformed pattern fails the whole
// table with its index so the user can fix the rules file.
func NewClassifier(pairs [][2]string) (*Classifier, error) {
	rules := make([]Rule, 0, len(pairs))
	for i, p := range pairs {
		re, err := regexp.Compile(p[0])
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q -> %q): %w", i, p[0], p[1], err)
		}
		rules = append(rules, Rule{Pattern: re, Category: p[1]})
	}
	return &Classifier{rules: rules}, nil
}

// Map returns the category for a window title.
func (c *Classifier) Map(title string) string {
	mapped := FallbackCategory
	for _, r := range c.rules {
		if r.Pattern.MatchString(title) {
			mapped = r.Category
		}
	}
	return mapped
}

// DefaultRulePairs is the built-in title mapping table. Order matters:
// later rules override earlier ones.
func DefaultRulePairs() [][2]string {
	return [][2]string{
		{`(?i)Google Chrome|Firefox|Brave|Microsoft Edge`, "Browser"},
		{`(?i)Visual Studio Code| - Code`, "VSCode"},
		{`(?i)Cursor`, "Cursor"},
		{`(?i)PyCharm|IntelliJ|CLion|Rider`, "JetBrains"},
		{`(?i)Fusion 360|Autodesk Fusion|Fusion360`, "CAD / Design"},
		{`(?i)Windows PowerShell|Command Prompt|Windows Terminal|pwsh|cmd\.exe`, "Terminal"},
		{`(?i)Jupyter|Notebook|Colab`, "Notebook"},
		{`(?i)GitHub|Stack Overflow|Read the Docs|Documentation`, "Dev Research"},
		{`(?i)Google Docs|Google Sheets|Notion|OneNote|PowerPoint|Excel|Word`, "Planning"},
		{`(?i)File Explorer|explorer\.exe`, "File Explorer"},
		{`(?i)Snipping Tool|Settings|Control Panel`, "Utility"},
		{`(?i)JDownloader`, "Downloads"},
		{`(?i)OBS`, "OBS"},
		{`(?i)YouTube|Spotify|Music`, "Media"},
		{`(?i)Dispatch|Naruto|Steam|Epic Games|Riot Client|Valorant|Dota|League of Legends|CS2|Counter-Strike|Genshin|Roblox|Minecraft`, "Games"},
		{`(?i)Facebook|Instagram|Twitter|X \(|Discord|Telegram|WhatsApp`, "Social"},
		{`(?i)ChatGPT|Claude|Gemini|Perplexity`, "AI Research"},
		{`(?i)\.(py|js|ts|tsx|jsx|html|css|cpp|h|md)`, "VSCode Coding"},
		{`(?i)Task Switching`, "Task Switching"},
		{`__IDLE__`, "Idle"},
		{`__LOCKEDSCREEN`, "Locked Screen"},
	}
}

// DefaultIgnoredCategories are excluded from focus scoring: they represent
// absence or transition, not attention spent.
func DefaultIgnoredCategories() map[string]bool {
	return map[string]bool{
		"Idle":           true,
		"Locked Screen":  true,
		"Task Switching": true,
	}
}

// DefaultDeepCategories are counted as deep work by the hacking-streak and
// focus-tax analyses.
func DefaultDeepCategories() []string {
	return []string{
		"VSCode Coding", "VSCode", "Cursor", "JetBrains",
		"Terminal", "Notebook", "Dev Research", "AI Research",
	}
}

// DefaultPassiveDeepCategories are productive categories that may not
// involve heavy typing; they count toward focused time but are expected to
// have low keystroke density.
func DefaultPassiveDeepCategories() []string {
	return []string{"CAD / Design"}
}

// DefaultDisplayGroups group categories into rows for the timeline view.
func DefaultDisplayGroups() [][]string {
	return [][]string{
		{"VSCode Coding", "VSCode", "Cursor", "JetBrains", "Terminal", "Notebook", "Dev Research", "AI Research", "CAD / Design"},
		{"Planning", "Browser", "File Explorer", "Utility", "Downloads"},
		{"OBS", "Media", "Social", "Games"},
		{"Task Switching", "Idle", "Locked Screen", "MISC"},
	}
}

// CategorySet builds a membership set from category lists.
func CategorySet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, c := range list {
			set[c] = true
		}
	}
	return set
}
