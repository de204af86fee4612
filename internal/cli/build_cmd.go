package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/alexanderramin/scormbuilder/internal/service"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrPackageInvalid is returned by the validate command for a package with
// validation errors, after the report has been printed.
var ErrPackageInvalid = errors.New("package is not valid")

// scormFlags are the package settings shared by build and validate-scorm.
type scormFlags struct {
	version  string
	criteria string
	passMark int
}

func (f *scormFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.version, "scorm-version", domain.ScormVersion12, "SCORM version (only 1.2)")
	fs.StringVar(&f.criteria, "completion", string(domain.CompletionAll), "Completion criteria: all or visited")
	fs.IntVar(&f.passMark, "passing-score", 80, "Passing score for the completion check (0-100)")
}

// apply overrides base with the flags that were set.
func (f *scormFlags) apply(fs *pflag.FlagSet, base domain.ScormConfig) domain.ScormConfig {
	if fs.Changed("scorm-version") {
		base.Version = f.version
	}
	if fs.Changed("completion") {
		base.CompletionCriteria = domain.CompletionCriteria(f.criteria)
	}
	if fs.Changed("passing-score") {
		base.PassingScore = f.passMark
	}
	return base
}

func newBuildCmd(app *App) *cobra.Command {
	var (
		out string
		sf  scormFlags
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Step 7: assemble, validate and write the SCORM ZIP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}

			st := acc.State()
			base := st.Scorm
			if !st.Visited[domain.StepScorm] && app.Package.Version != "" {
				base = app.Package
			}
			cfg := sf.apply(cmd.Flags(), base)
			if _, err := enterStep(ctx, acc, domain.StepScorm, wizard.StepPayload{Scorm: &cfg}); err != nil {
				return err
			}

			res, err := app.Builds.Build(ctx, acc, out)
			if errors.Is(err, service.ErrInvalidPackage) && res != nil && res.Report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReport("(not written)", res.Report))
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBuild(res))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output ZIP path (default: <output dir>/<course>.zip)")
	sf.register(cmd.Flags())
	return cmd
}

func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "validate <package.zip>",
		Short:       "Validate a SCORM package",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipBoot: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := validatePackage(args[0], cmd.OutOrStdout(), asJSON)
			if err != nil {
				return err
			}
			if !ok {
				return ErrPackageInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

// validatePackage prints the report for the ZIP at path and reports
// whether it is valid.
func validatePackage(path string, w io.Writer, asJSON bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading package: %w", err)
	}
	report := scorm.Validate(data)

	switch {
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return false, err
		}
	case isTerminal(w):
		fmt.Fprintln(w, formatter.FormatReport(path, report))
	default:
		fmt.Fprint(w, scorm.FormatReport(report))
	}
	return report.IsValid, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RunValidateScorm is the validate-scorm entry point. It returns the
// process exit code: 0 for a valid package, 1 for an invalid or unreadable
// one, 2 for bad usage.
func RunValidateScorm(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("validate-scorm", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: validate-scorm [--json] <package.zip>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	ok, err := validatePackage(fs.Arg(0), stdout, *asJSON)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if !ok {
		return 1
	}
	return 0
}
