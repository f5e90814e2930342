package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/export"
	"dtask/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	path   string
}

// SetOptions sets the --format and --out flags (for testing).
func (c *ExportCmd) SetOptions(format, path string) {
	c.format = format
	c.path = path
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write tasks as JSON, CSV or PDF" }
func (c *ExportCmd) Usage() string {
	return "dtask export [--format json|csv|pdf] [--out <path>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "json", "")
	fs.StringVar(&c.format, "f", "json", "")
	fs.StringVar(&c.path, "out", "", "")
	fs.StringVar(&c.path, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format := strings.ToLower(c.format)
	if format == "" {
		format = "json"
	}
	if !slices.Contains(export.Formats, format) {
		fmt.Fprintf(errOut, "error: unknown format: %s (want %s)\n", c.format, strings.Join(export.Formats, ", "))
		return exitcode.UserError
	}
	if format == "pdf" && c.path == "" {
		fmt.Fprintln(errOut, "error: --out required for pdf")
		return exitcode.UserError
	}

	ctrl, code := openController(ctx, cfg, svc, errOut)
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	data, err := export.Export(format, ctrl.Tasks(), ctrl.Now())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.path == "" {
		out.Write(data)
		return exitcode.Success
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return done(cfg, out, "ok")
}
