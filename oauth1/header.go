package oauth1

import (
	"sort"
	"strings"
)

// HeaderAuthorization is the header the rendered parameters are sent in.
const HeaderAuthorization = "Authorization"

// AuthorizationHeader renders signed parameters as an OAuth Authorization
// header value. Only oauth_* parameters are included, sorted by name.
func AuthorizationHeader(signed map[string]string) string {
	keys := make([]string, 0, len(signed))
	for k := range signed {
		if strings.HasPrefix(k, "oauth_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = PercentEncode(k) + `="` + PercentEncode(signed[k]) + `"`
	}
	return "OAuth " + strings.Join(parts, ", ")
}
