package render

import "strings"

// Markdown renders markdown content for terminal display.
// Uses a pooled renderer for better performance and thread safety.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownOrPlain renders content as markdown and falls back to the raw
// text when rendering fails. Surrounding blank lines are trimmed.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
