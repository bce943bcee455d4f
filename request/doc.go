// Package request assembles one call: it canonicalises the caller's
// parameters, resolves the URI template, signs the request with OAuth1
// and decides where the parameters travel (query string or form body).
//
//	p, err := request.Assemble(ctx, oauth1.NewHMACSigner(), "POST",
//	    "https://api.example.com/1.1/lists/{list-id}/members.json",
//	    request.Options{
//	        Params:      map[string]any{"list-id": 42, "screen-name": []string{"a", "b"}},
//	        Credentials: creds,
//	    })
//
// The result carries an httpclient.Request plus the control fields (mode,
// handlers, client) that never reach the wire.
package request
