// Package params turns caller-supplied option maps into canonical wire
// parameters and fills URI templates from them.
//
// Keys are written in the caller's idiom ("screen-name") and sent in the
// wire idiom ("screen_name"). Collection values travel as a single
// comma-joined string in their original order.
//
//	canonical := params.Transform(map[string]any{"screen-name": []string{"a", "b"}})
//	// canonical == map[string]string{"screen_name": "a,b"}
//
//	uri, err := params.SubstituteURI("accounts/{id}", map[string]string{"id": "42"})
//	// uri == "accounts/42"
package params
