// Package apitest provides a fake REST API for tests. It records every
// request it receives and can require a valid OAuth1 signature.
//
//	srv := apitest.NewServer(t)
//	srv.RequireOAuth(creds)
//	srv.Handle(http.MethodGet, "/1.1/users/show.json", func(c *gin.Context) {
//	    c.JSON(http.StatusOK, gin.H{"screen_name": c.Query("screen_name")})
//	})
//	// point the client at srv.URL(), then inspect srv.Requests()
package apitest
