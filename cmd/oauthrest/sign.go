package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/kbukum/oauthrest/api"
	"github.com/kbukum/oauthrest/oauth1"
	"github.com/kbukum/oauthrest/params"
	"github.com/kbukum/oauthrest/request"
)

func newSignCmd(root *rootOptions) *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "sign METHOD URI",
		Short: "Print the signed request without sending it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			creds := cfg.Credentials()
			if creds == nil {
				return fmt.Errorf("no oauth credentials configured")
			}
			p, err := parsePairs("param", pairs)
			if err != nil {
				return err
			}

			a, err := api.New(nil, nil, api.WithBaseURL(cfg.Client.BaseURL), api.WithCredentials(creds))
			if err != nil {
				return err
			}
			processed, err := a.Assemble(cmd.Context(), args[0], args[1], request.Options{Params: p})
			if err != nil {
				return err
			}

			req := processed.Request
			target, err := url.Parse(req.URL)
			if err != nil {
				return err
			}
			q := target.Query()
			for k, v := range req.Query {
				q.Set(k, params.Stringify(v))
			}
			target.RawQuery = q.Encode()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", req.Method, target.String())
			fmt.Fprintf(out, "%s: %v\n", oauth1.HeaderAuthorization, req.Headers[oauth1.HeaderAuthorization])
			if form := req.Body.Form(); len(form) > 0 {
				values := url.Values{}
				for k, v := range form {
					values.Set(k, params.Stringify(v))
				}
				fmt.Fprintf(out, "\n%s\n", values.Encode())
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "param", "p", nil, "call parameter key=value (repeatable)")
	return cmd
}
