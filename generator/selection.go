package generator

import (
	"slices"

	"github.com/erraggy/oasdecode/schema"
)

// Select returns the definitions that get decoders, in a stable order.
//
// An explicit list, even an empty one, wins: its object-typed names are
// kept in list order without duplicates and unknown names are dropped.
// Without one, the document's decoder whitelist applies in definition
// order. Without either, every object-typed definition is selected.
func Select(doc *schema.Document, explicit []string, hasExplicit bool) []string {
	selected := []string{}
	if hasExplicit {
		for _, name := range explicit {
			if isObjectDefinition(doc, name) && !slices.Contains(selected, name) {
				selected = append(selected, name)
			}
		}
		return selected
	}

	whitelist, hasWhitelist := doc.Whitelist()
	for _, name := range doc.Names() {
		if !isObjectDefinition(doc, name) {
			continue
		}
		if hasWhitelist && !slices.Contains(whitelist, name) {
			continue
		}
		selected = append(selected, name)
	}
	return selected
}

func isObjectDefinition(doc *schema.Document, name string) bool {
	def, ok := doc.Definition(name)
	if !ok {
		return false
	}
	t, single := def.SingleType()
	return single && t == schema.TypeObject
}

// ignoredDecoders lists the explicit names Select dropped.
func ignoredDecoders(explicit, selected []string) []string {
	var ignored []string
	for _, name := range explicit {
		if !slices.Contains(selected, name) && !slices.Contains(ignored, name) {
			ignored = append(ignored, name)
		}
	}
	return ignored
}
