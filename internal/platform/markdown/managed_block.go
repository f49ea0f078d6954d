package markdown

import (
	"fmt"
	"strings"
)

func blockMarkers(name string) (string, string) {
	return fmt.Sprintf("<!-- timeanchor:%s:start -->", name), fmt.Sprintf("<!-- timeanchor:%s:end -->", name)
}

// UpsertBlock replaces the named generated block in body, or appends it when
// body has none. Text outside the markers is left untouched.
func UpsertBlock(body, name, generated string) string {
	startMarker, endMarker := blockMarkers(name)
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(endMarker):]
	}

	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
