package services

import (
	"strings"

	"kova/models"
)

// MatchStyles returns the catalog items tagged with the first known style
// that the message mentions. Matching is plain substring containment on the
// lowercased message, not whole-word matching. When a message names several
// styles, only the first tag in models.StylePriority counts, regardless of
// where each appears in the text. A message with no known style yields an
// empty result.
func MatchStyles(message string, catalog []models.CatalogItem) []models.CatalogItem {
	msg := strings.ToLower(message)

	var match models.StyleTag
	for _, tag := range models.StylePriority {
		if strings.Contains(msg, string(tag)) {
			match = tag
			break
		}
	}
	if match == "" {
		return nil
	}

	var items []models.CatalogItem
	for _, item := range catalog {
		if item.Style == match {
			items = append(items, item)
		}
	}
	return items
}
