package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/restspec/openapi"
	"github.com/kbukum/restspec/version"
)

func newOpenAPICmd(root *rootOptions) *cobra.Command {
	var format, title, apiVersion string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Export the compiled functions as an OpenAPI 3 document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(a *app) error {
				info := openapi.Info{Title: title, Version: apiVersion}
				if info.Title == "" {
					info.Title = a.cfg.Name
				}
				if info.Version == "" {
					info.Version = version.Get().Short()
				}
				doc, err := openapi.Build(a.registry, info)
				if err != nil {
					return err
				}
				data, err := openapi.Render(doc, format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&format, "format", "f", openapi.FormatYAML, "output format: json or yaml")
	fs.StringVar(&title, "title", "", "API title (default: config name)")
	fs.StringVar(&apiVersion, "version", "", "API version (default: restspec version)")
	return cmd
}
