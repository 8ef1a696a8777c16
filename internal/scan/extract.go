package scan

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// Accepted declaration surface forms: a quoted "owner/name" short
// spec, an explicit name = "..." field, and a dir = "..." field whose
// final path segment names the plugin.
var (
	shortSpecRe = regexp.MustCompile(`["']([A-Za-z0-9._-]+/[A-Za-z0-9._-]+)["']`)
	nameRe      = regexp.MustCompile(`\bname\s*=\s*["']([^"']+)["']`)
	dirRe       = regexp.MustCompile(`\bdir\s*=\s*["']([^"']+)["']`)

	tokenRe   = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	numericRe = regexp.MustCompile(`^[0-9]+$`)
)

type mention struct {
	pos  int
	name string
}

// Extract returns the plugin names mentioned in a declaration file's
// content, deduplicated and in order of first mention. Anything that
// does not look like a plausible plugin name token is discarded.
func Extract(content []byte) []string {
	text := string(content)

	var mentions []mention
	collect := func(re *regexp.Regexp, segment bool) {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			raw := text[m[2]:m[3]]
			if segment {
				raw = lastSegment(raw)
			}
			if validName(raw) {
				mentions = append(mentions, mention{pos: m[0], name: raw})
			}
		}
	}

	collect(shortSpecRe, true)
	collect(nameRe, false)
	collect(dirRe, true)

	sort.SliceStable(mentions, func(i, j int) bool { return mentions[i].pos < mentions[j].pos })

	var names []string
	seen := make(map[string]bool)
	for _, m := range mentions {
		if seen[m.name] {
			continue
		}
		seen[m.name] = true
		names = append(names, m.name)
	}

	return names
}

// validName applies the conservative token shape: word characters,
// hyphen, dot, underscore; purely numeric tokens are rejected.
func validName(name string) bool {
	return tokenRe.MatchString(name) && !numericRe.MatchString(name)
}

func lastSegment(p string) string {
	p = strings.TrimRight(p, "/")
	return path.Base(p)
}
