package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reqvalidation",
		Short: "Request validation example service",
		Long: `reqvalidation serves an example route whose path parameters, query and
body are validated against declarative schemas, and documents it with OpenAPI.

  reqvalidation serve              # start the HTTP server
  reqvalidation openapi -f yaml    # print the OpenAPI document
  reqvalidation config             # list configuration keys`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newOpenAPICmd(), newConfigCmd())
	return root
}
