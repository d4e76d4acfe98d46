package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Catalog holds the static table of known hairstyles grouped by gender and
// hair length. It is built once at process start and safe for concurrent
// reads. The style lists are advisory prompt context only; a client may ask
// for a style that is not listed here.
type Catalog struct {
	styles map[string]map[string][]string
}

// New returns the default catalog.
func New() *Catalog {
	return &Catalog{styles: map[string]map[string][]string{
		"male": {
			"short": {
				"Crew Cut",
				"Buzz Fade",
				"Caesar",
				"French Crop",
				"Ivy League",
				"Flat Top",
			},
			"medium": {
				"Quiff",
				"Slicked Back",
				"Modern Shag",
				"Pompadour",
				"Bro Flow",
				"Medium Waves",
			},
			"long": {
				"Long & Wavy",
				"Man Bun",
				"Shoulder Length",
				"Surfer Style",
				"Samurai Bun",
				"Long Layers",
			},
		},
		"female": {
			"short": {
				"Pixie Cut",
				"Bob",
				"Undercut",
				"Shaggy Bob",
				"Blunt Cut",
				"Curly Crop",
			},
			"medium": {
				"Layered",
				"Balayage",
				"Wolf Cut",
				"Lob",
				"Curtain Bangs",
				"Feathered",
			},
			"long": {
				"Wavy",
				"Braided",
				"Straight & Long",
				"Loose Curls",
				"Layered Lengths",
				"Fishtail Braid",
			},
		},
	}}
}

// Lookup returns the ordered style list for the given gender and hair length,
// or nil when either key is unknown. The returned slice is a copy.
func (c *Catalog) Lookup(gender, length string) []string {
	byLength, ok := c.styles[strings.ToLower(strings.TrimSpace(gender))]
	if !ok {
		return nil
	}
	styles, ok := byLength[strings.ToLower(strings.TrimSpace(length))]
	if !ok {
		return nil
	}
	out := make([]string, len(styles))
	copy(out, styles)
	return out
}

var titleCaser = cases.Title(language.English)

// Canonical normalizes a free-text style name to the catalog's display form,
// e.g. "pixie cut" becomes "Pixie Cut". Used when composing prompt context;
// the caller's original spelling is never validated or rejected.
func Canonical(style string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(style)))
}
