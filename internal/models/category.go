// Package models defines the core data structures for the alpha bot.
package models

import "strings"

// Category is the fixed project taxonomy. It is always derived, never user supplied.
type Category string

const (
	CategoryMeme    Category = "meme"
	CategoryDeFi    Category = "defi"
	CategoryGaming  Category = "gaming"
	CategoryUtility Category = "utility"
)

// Categories lists the taxonomy in display order.
var Categories = []Category{CategoryMeme, CategoryDeFi, CategoryGaming, CategoryUtility}

// CategoryRule maps a category to the keywords that select it.
type CategoryRule struct {
	Category Category
	Keywords []string
}

// CategoryRules are evaluated in order; the first rule with a matching keyword wins.
var CategoryRules = []CategoryRule{
	{Category: CategoryMeme, Keywords: []string{"inu", "dog", "pepe", "cat", "shiba", "meme"}},
	{Category: CategoryDeFi, Keywords: []string{"swap", "dex", "finance", "yield", "stake", "dao"}},
	{Category: CategoryGaming, Keywords: []string{"game", "play", "metaverse", "nft"}},
}

// DetectCategory classifies a token by its display name only. An empty or unmatched
// name is utility.
func DetectCategory(name string) Category {
	text := strings.ToLower(strings.TrimSpace(name))
	if text == "" {
		return CategoryUtility
	}
	for _, rule := range CategoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				return rule.Category
			}
		}
	}
	return CategoryUtility
}

// ParseCategory validates a user-supplied category filter.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}
