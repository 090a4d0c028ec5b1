package commands

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool // Rewrite files in place
	Check bool // Report files that are not canonically formatted
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format SQL from files or stdin",
		Long: `Format SQL statements into canonical form.

With no arguments, reads SQL from stdin and writes the formatted result
to stdout. With file or directory arguments, formats every .sql file
found (directories are walked recursively).`,
		Example: `  # Format stdin
  cat query.sql | sqleaner fmt

  # Rewrite files in place
  sqleaner fmt --write queries/

  # List files that are not canonically formatted (non-zero exit if any)
  sqleaner fmt --check queries/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "List files that need formatting and exit non-zero")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

func runFmt(cmd *cobra.Command, opts *FmtOptions, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if opts.Write || opts.Check {
			return fmt.Errorf("--write and --check require file arguments")
		}
		return fmtStdin(cmd, cmdCtx)
	}

	files, err := collectSQLFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .sql files found in %s", strings.Join(args, ", "))
	}

	// Files are independent documents, so they format concurrently.
	// Statements within one document still format strictly in sequence.
	type fileResult struct {
		formatted string
		changed   bool
	}
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			res, err := cmdCtx.Engine.FormatSQL(string(src))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = fileResult{
				formatted: res.Output,
				changed:   res.Output != string(src),
			}
			if opts.Write && results[i].changed {
				if err := os.WriteFile(path, []byte(res.Output), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	switch {
	case opts.Check:
		var dirty []string
		for i, r := range results {
			if r.changed {
				dirty = append(dirty, files[i])
			}
		}
		if len(dirty) == 0 {
			return nil
		}
		renderCheckTable(cmd.OutOrStdout(), dirty)
		return fmt.Errorf("%d file(s) not canonically formatted", len(dirty))

	case opts.Write:
		changed := 0
		for _, r := range results {
			if r.changed {
				changed++
			}
		}
		cmdCtx.Logger.Debug("formatting complete", "files", len(files), "rewritten", changed)
		return nil

	default:
		for _, r := range results {
			fmt.Fprint(cmd.OutOrStdout(), r.formatted)
		}
		return nil
	}
}

func fmtStdin(cmd *cobra.Command, cmdCtx *CommandContext) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	res, err := cmdCtx.Engine.FormatSQL(string(src))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Output)
	return nil
}

// collectSQLFiles expands the argument list into a sorted, de-duplicated
// list of SQL files. File arguments are taken as-is; directories are walked
// recursively for .sql files, skipping hidden directories.
func collectSQLFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(p), ".sql") {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func renderCheckTable(w io.Writer, dirty []string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Status"})
	for _, path := range dirty {
		t.AppendRow(table.Row{path, "needs formatting"})
	}
	t.Render()
}
