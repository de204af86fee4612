package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/importer"
	"github.com/spf13/cobra"
)

// maxStdinCourse bounds course JSON read from stdin.
const maxStdinCourse = 32 << 20

func newImportJSONCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import-json <file|->",
		Short: "Step 3: import and validate the course JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			if args[0] == "-" {
				b, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinCourse+1))
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				if len(b) > maxStdinCourse {
					return fmt.Errorf("course JSON on stdin is larger than %d bytes", maxStdinCourse)
				}
				data = b
			} else {
				_, raw, err := importer.LoadCourseFile(args[0])
				if err != nil {
					return err
				}
				data = raw
			}

			ctx := cmd.Context()
			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			content, err := app.Imports.ImportJSON(ctx, acc, data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Imported %d topics, %d assessment questions", len(content.Topics), len(content.Assessment.Questions))))
			fmt.Fprintf(out, "  Pages: %s\n", strings.Join(content.PageIDs(), ", "))
			fmt.Fprintln(out, formatter.Dim("Next: scormbuilder media add <page> <file>, or 'scormbuilder audio settings' to move on"))
			return nil
		},
	}
}
