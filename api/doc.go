// Package api is the call surface: one entry point that assembles, signs
// and executes a REST call, plus an endpoint factory for declaring an
// API's resources once.
//
//	client, _ := httpclient.New(httpclient.Config{})
//	twitter, _ := api.New(client, oauth1.NewHMACSigner(),
//	    api.WithBaseURL("https://api.twitter.com/1.1"),
//	    api.WithCredentials(creds))
//
//	showUser := api.NewEndpoint(http.MethodGet, "/users/show.json", request.Options{}).Bind(twitter)
//	result, err := showUser(ctx, request.Options{
//	    Params:   map[string]any{"screen-name": "bob"},
//	    Handlers: &httpclient.Handlers{OnSuccess: decodeUser},
//	})
package api
