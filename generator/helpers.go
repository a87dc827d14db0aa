package generator

import (
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/erraggy/oasdecode/engine"
)

// formatAndFixImports formats Go source and fixes its imports the way
// goimports does, so generated files compile without further tooling.
func formatAndFixImports(filename string, src []byte, opts SourceOptions) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		TabWidth:   opts.TabWidth,
		TabIndent:  opts.TabIndent,
		Comments:   opts.Comments,
		FormatOnly: opts.FormatOnly,
	})
}

// engineOptions renders the engine options matching set as Go source.
func engineOptions(set engine.FormatSet) string {
	if !set.Enabled {
		return ""
	}
	var b strings.Builder
	b.WriteString("engine.WithFormats(engine.FormatSet{Enabled: true")
	if set.Mode == engine.FormatFull {
		b.WriteString(", Mode: engine.FormatFull")
	} else {
		b.WriteString(", Mode: engine.FormatFast")
	}
	if len(set.Formats) > 0 {
		b.WriteString(", Formats: []string{")
		for i, f := range set.Formats {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(f))
		}
		b.WriteString("}")
	}
	if set.SkipKeywords {
		b.WriteString(", SkipKeywords: true")
	}
	b.WriteString("})")
	return b.String()
}
