// Package oauth1 is the signing gateway of the pipeline.
//
// The assembler only depends on the Signer interface and on
// AuthorizationHeader. HMACSigner is the default implementation of
// OAuth 1.0a HMAC-SHA1 signing (RFC 5849 section 3.4.2); callers with
// other signature methods plug in their own Signer.
//
//	signer := oauth1.NewHMACSigner()
//	signed, err := signer.Sign(creds, "GET", "https://api.example.com/1.1/users/show.json", query)
//	header := oauth1.AuthorizationHeader(signed)
package oauth1
