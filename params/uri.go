package params

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/kbukum/oauthrest/errors"
)

var placeholderRe = regexp.MustCompile(`\{([^{}/]+)\}`)

// Placeholders returns the placeholder names of template in order of
// appearance, duplicates included.
func Placeholders(template string) []string {
	matches := placeholderRe.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// SubstituteURI replaces every {name} placeholder in template with the
// value of the canonical parameter of the same name. Placeholder names are
// canonicalised before lookup, so {screen-name} reads "screen_name".
// Values are escaped for their position: path escaping before the
// template's '?', query escaping after it. A placeholder without a
// parameter is a MISSING_PARAM error; nothing is left in the URI literally.
func SubstituteURI(template string, canonical map[string]string) (string, error) {
	queryStart := strings.IndexByte(template, '?')
	var b strings.Builder
	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(template, -1) {
		name := template[loc[2]:loc[3]]
		value, ok := canonical[CanonicalKey(name)]
		if !ok {
			return "", errors.MissingParam(template, name)
		}
		b.WriteString(template[last:loc[0]])
		if queryStart >= 0 && loc[0] > queryStart {
			b.WriteString(url.QueryEscape(value))
		} else {
			b.WriteString(url.PathEscape(value))
		}
		last = loc[1]
	}
	b.WriteString(template[last:])
	return b.String(), nil
}
