package export

import "strings"

// unsafe covers filesystem-reserved characters across platforms.
const unsafe = `/\:*?"<>|`

// SafeFilename derives a filename stem from a presentation title,
// replacing filesystem-unsafe characters with underscores.
func SafeFilename(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "presentation"
	}

	var b strings.Builder
	for _, r := range title {
		if strings.ContainsRune(unsafe, r) || r < 0x20 {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return "presentation"
	}
	return out
}
