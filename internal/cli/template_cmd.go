package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/template"
	"github.com/spf13/cobra"
)

func (a *App) loadTemplates() (*template.Registry, []string, error) {
	if a.Templates == nil {
		return template.LoadRegistry("")
	}
	return a.Templates()
}

func newTemplatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "templates [template]",
		Aliases: []string{"template"},
		Short:   "List course templates, or show one",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, warnings, err := app.loadTemplates()
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning(w))
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				p, err := reg.Resolve(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatTemplate(p))
				return nil
			}
			fmt.Fprint(out, formatter.FormatTemplateList(reg.List()))
			fmt.Fprintln(out, formatter.Dim("Use with: scormbuilder seed --template <id|name|#>"))
			return nil
		},
	}
}
