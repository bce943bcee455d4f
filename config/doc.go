// Package config loads the oauthrest configuration.
//
// Values come from a YAML file (oauthrest.yml or config.yml in the working
// directory, ./config, ./cmd/oauthrest or ~/.config/oauthrest), then an
// optional .env file, then OAUTHREST_ environment variables:
//
//	cfg, err := config.Load(config.WithConfigFile("oauthrest.yml"))
//
// OAUTHREST_OAUTH_CONSUMER_KEY overrides oauth.consumer_key and
// OAUTHREST_CLIENT_BASE_URL overrides client.base_url.
package config
