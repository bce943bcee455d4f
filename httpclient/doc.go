// Package httpclient turns a processed call into an HTTP request, submits
// it, and routes the outcome to the caller's handlers.
//
// It holds three pipeline stages:
//
//   - Build converts a Request (method, URL, headers, query, Body, cookies,
//     proxy, auth, timeout) into a BuiltRequest ready for the transport.
//   - Client.ExecuteBlocking and Client.ExecuteAsync submit a request and
//     invoke exactly one of OnSuccess, OnFailure or OnException.
//   - New and Component provide the shared Client. Redirects are never
//     followed; the caller sees the 3xx response.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{Timeout: 10 * time.Second})
//
//	result, err := client.ExecuteBlocking(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    URL:    "https://api.example.com/1.1/users/show.json",
//	    Query:  map[string]any{"screen_name": "bob"},
//	}, &httpclient.Handlers{
//	    OnSuccess: func(r *httpclient.Response) any { return r.Body },
//	})
//
// # Async
//
//	call, err := client.ExecuteAsync(ctx, req, handlers)
//	defer call.Cancel()
//	call.Wait()
package httpclient
