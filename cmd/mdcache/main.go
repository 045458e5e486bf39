// Package main provides the mdcache binary entry point.
// mdcache inspects and rewrites Portage md5-cache metadata files.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lu-zero/portage-metadata/metadata"
)

const (
	version = "0.1.0"
	appName = "mdcache"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		logLevel string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Inspect Portage md5-cache metadata files",
		Long: `mdcache parses the md5-cache files Portage keeps under
metadata/md5-cache/ and can summarize, convert, reformat, diff and
bulk-validate them.

Commands read a file argument, or stdin when the argument is omitted
or given as "-".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logLevel = "debug"
			}
			return setupLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")

	cmd.AddCommand(showCmd())
	cmd.AddCommand(dumpCmd())
	cmd.AddCommand(fmtCmd())
	cmd.AddCommand(diffCmd())
	cmd.AddCommand(scanCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, version)
		},
	})

	return cmd
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return nil
}

// readInput reads the file named by the first positional argument, or
// stdin when no argument (or "-") is given.
func readInput(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), "<stdin>", nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(raw), args[0], nil
}

func parseInput(args []string) (*metadata.Record, string, error) {
	input, name, err := readInput(args)
	if err != nil {
		return nil, "", err
	}
	rec, err := metadata.ParseRecord(input)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return rec, name, nil
}

// ============================================================
// show
// ============================================================

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print a one-line-per-field summary of a cache file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, name, err := parseInput(args)
			if err != nil {
				return err
			}
			slog.Debug("parsed cache file", "file", name)
			printSummary(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func printSummary(w io.Writer, rec *metadata.Record) {
	fmt.Fprintf(w, "EAPI:           %s\n", rec.EAPI)
	fmt.Fprintf(w, "Description:    %s\n", rec.Description)
	fmt.Fprintf(w, "Slot:           %s\n", rec.Slot)
	if len(rec.Homepage) > 0 {
		fmt.Fprintf(w, "Homepage:       %s\n", strings.Join(rec.Homepage, " "))
	}
	if len(rec.Keywords) > 0 {
		parts := make([]string, len(rec.Keywords))
		for i, k := range rec.Keywords {
			parts[i] = k.String()
		}
		fmt.Fprintf(w, "Keywords:       %s\n", strings.Join(parts, " "))
	}
	if rec.License != nil {
		fmt.Fprintf(w, "License:        %s\n", rec.License)
	}
	if len(rec.IUse) > 0 {
		fmt.Fprintf(w, "IUSE flags:     %d\n", len(rec.IUse))
	}
	if rec.RequiredUse != nil {
		fmt.Fprintf(w, "Required USE:   %s\n", rec.RequiredUse)
	}
	if len(rec.Restrict) > 0 {
		fmt.Fprintf(w, "Restrict:       %s\n", joinRestrict(rec.Restrict))
	}
	if len(rec.Properties) > 0 {
		fmt.Fprintf(w, "Properties:     %s\n", joinRestrict(rec.Properties))
	}
	fmt.Fprintf(w, "SRC_URI nodes:  %d\n", len(rec.SrcURI))
	fmt.Fprintf(w, "Depend:         %d entries\n", len(rec.Depend))
	fmt.Fprintf(w, "RDepend:        %d entries\n", len(rec.RDepend))
	if len(rec.BDepend) > 0 {
		fmt.Fprintf(w, "BDepend:        %d entries\n", len(rec.BDepend))
	}
	if len(rec.PDepend) > 0 {
		fmt.Fprintf(w, "PDepend:        %d entries\n", len(rec.PDepend))
	}
	if len(rec.IDepend) > 0 {
		fmt.Fprintf(w, "IDepend:        %d entries\n", len(rec.IDepend))
	}
	if len(rec.DefinedPhases) > 0 {
		parts := make([]string, len(rec.DefinedPhases))
		for i, p := range rec.DefinedPhases {
			parts[i] = p.String()
		}
		fmt.Fprintf(w, "Phases:         %s\n", strings.Join(parts, " "))
	}
	if len(rec.Eclasses) > 0 {
		parts := make([]string, len(rec.Eclasses))
		for i, ec := range rec.Eclasses {
			parts[i] = ec.Name
		}
		fmt.Fprintf(w, "Eclasses:       %s\n", strings.Join(parts, " "))
	}
	if rec.MD5 != "" {
		fmt.Fprintf(w, "MD5:            %s\n", rec.MD5)
	}
}

func joinRestrict(entries []*metadata.Restrict) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// ============================================================
// dump
// ============================================================

// recordView is the flattened export shape for dump: expression trees
// are rendered to their canonical strings.
type recordView struct {
	EAPI          string       `json:"eapi" yaml:"eapi"`
	Description   string       `json:"description" yaml:"description"`
	Slot          string       `json:"slot" yaml:"slot"`
	Homepage      []string     `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	SrcURI        []string     `json:"src_uri,omitempty" yaml:"src_uri,omitempty"`
	License       string       `json:"license,omitempty" yaml:"license,omitempty"`
	Keywords      []string     `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	IUse          []string     `json:"iuse,omitempty" yaml:"iuse,omitempty"`
	RequiredUse   string       `json:"required_use,omitempty" yaml:"required_use,omitempty"`
	Restrict      []string     `json:"restrict,omitempty" yaml:"restrict,omitempty"`
	Properties    []string     `json:"properties,omitempty" yaml:"properties,omitempty"`
	Depend        []string     `json:"depend,omitempty" yaml:"depend,omitempty"`
	RDepend       []string     `json:"rdepend,omitempty" yaml:"rdepend,omitempty"`
	BDepend       []string     `json:"bdepend,omitempty" yaml:"bdepend,omitempty"`
	PDepend       []string     `json:"pdepend,omitempty" yaml:"pdepend,omitempty"`
	IDepend       []string     `json:"idepend,omitempty" yaml:"idepend,omitempty"`
	Inherited     []string     `json:"inherited,omitempty" yaml:"inherited,omitempty"`
	DefinedPhases []string     `json:"defined_phases,omitempty" yaml:"defined_phases,omitempty"`
	Eclasses      []eclassView `json:"eclasses,omitempty" yaml:"eclasses,omitempty"`
	MD5           string       `json:"md5,omitempty" yaml:"md5,omitempty"`
}

type eclassView struct {
	Name     string `json:"name" yaml:"name"`
	Checksum string `json:"checksum" yaml:"checksum"`
}

func newRecordView(rec *metadata.Record) *recordView {
	v := &recordView{
		EAPI:        rec.EAPI.String(),
		Description: rec.Description,
		Slot:        rec.Slot.String(),
		Homepage:    rec.Homepage,
		Inherited:   rec.Inherited,
		MD5:         rec.MD5,
	}
	for _, e := range rec.SrcURI {
		v.SrcURI = append(v.SrcURI, e.String())
	}
	if rec.License != nil {
		v.License = rec.License.String()
	}
	for _, k := range rec.Keywords {
		v.Keywords = append(v.Keywords, k.String())
	}
	for _, u := range rec.IUse {
		v.IUse = append(v.IUse, u.String())
	}
	if rec.RequiredUse != nil {
		v.RequiredUse = rec.RequiredUse.String()
	}
	for _, e := range rec.Restrict {
		v.Restrict = append(v.Restrict, e.String())
	}
	for _, e := range rec.Properties {
		v.Properties = append(v.Properties, e.String())
	}
	for _, d := range rec.Depend {
		v.Depend = append(v.Depend, d.String())
	}
	for _, d := range rec.RDepend {
		v.RDepend = append(v.RDepend, d.String())
	}
	for _, d := range rec.BDepend {
		v.BDepend = append(v.BDepend, d.String())
	}
	for _, d := range rec.PDepend {
		v.PDepend = append(v.PDepend, d.String())
	}
	for _, d := range rec.IDepend {
		v.IDepend = append(v.IDepend, d.String())
	}
	for _, p := range rec.DefinedPhases {
		v.DefinedPhases = append(v.DefinedPhases, p.String())
	}
	for _, ec := range rec.Eclasses {
		v.Eclasses = append(v.Eclasses, eclassView{Name: ec.Name, Checksum: ec.Checksum})
	}
	return v
}

func dumpCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Export a cache file as JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, _, err := parseInput(args)
			if err != nil {
				return err
			}
			view := newRecordView(rec)
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			case "yaml":
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(view)
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	return cmd
}

// ============================================================
// fmt
// ============================================================

func fmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite a cache file in canonical key order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, _, err := parseInput(args)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), rec.Serialize())
			return err
		},
	}
}

// ============================================================
// diff
// ============================================================

func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <file-a> <file-b>",
		Short: "Line-diff two cache files after canonicalization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := parseInput(args[0:1])
			if err != nil {
				return err
			}
			b, _, err := parseInput(args[1:2])
			if err != nil {
				return err
			}
			printLineDiff(cmd.OutOrStdout(), a.Serialize(), b.Serialize())
			return nil
		},
	}
}

// printLineDiff prints a unified-style line diff of two canonical
// serializations.
func printLineDiff(w io.Writer, oldText, newText string) {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			prefix = " "
		}
		for _, r := range d.Text {
			idx := int(r)
			if idx < 0 || idx >= len(lineArray) {
				continue
			}
			fmt.Fprintf(w, "%s%s", prefix, lineArray[idx])
		}
	}
}

// ============================================================
// scan
// ============================================================

func scanCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Parse every cache file under a directory and report failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			out := cmd.OutOrStdout()

			var total, failed int
			err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				rel, err := filepath.Rel(root, path)
				if err != nil {
					return err
				}
				ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
				if err != nil {
					return fmt.Errorf("bad pattern %q: %w", pattern, err)
				}
				if !ok {
					return nil
				}
				total++
				raw, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if _, perr := metadata.ParseRecord(string(raw)); perr != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", rel, perr)
				} else {
					slog.Debug("parsed", "file", rel)
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%d files scanned, %d failed\n", total, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "glob", "**", "doublestar pattern matched against the path relative to <dir>")
	return cmd
}
