// Package markdown renders sealed assistant turns for the terminal.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const defaultWidth = 100

var (
	mu        sync.Mutex
	plain     bool
	renderers = map[int]*glamour.TermRenderer{}
)

// SetPlain switches to glamour's unstyled output, used with --no-color.
func SetPlain(v bool) {
	mu.Lock()
	defer mu.Unlock()
	if plain != v {
		plain = v
		renderers = map[int]*glamour.TermRenderer{}
	}
}

// RenderWidth renders md wrapped at width. It falls back to the raw text if
// the renderer cannot be built or fails.
func RenderWidth(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	if width <= 0 {
		width = defaultWidth
	}
	r := renderer(width)
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	// glamour adds leading and trailing blank lines; trim for inline display.
	return strings.Trim(out, "\n")
}

func renderer(width int) *glamour.TermRenderer {
	mu.Lock()
	defer mu.Unlock()
	if r, ok := renderers[width]; ok {
		return r
	}
	styleOpt := glamour.WithAutoStyle()
	if plain {
		styleOpt = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	renderers[width] = r
	return r
}
