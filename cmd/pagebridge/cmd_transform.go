package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/pagebridge/convert"
	"github.com/hazyhaar/pagebridge/site"
	"github.com/hazyhaar/pagebridge/transform"
	"github.com/hazyhaar/pagebridge/tree"
)

const previewBytes = 2000

func transformCmd() *cobra.Command {
	var output string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "transform <source> <target> <file>",
		Short: "Convert a single page file to another framework",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cliLogger()
			source, target, input := strings.ToLower(args[0]), strings.ToLower(args[1]), args[2]

			conv, err := convert.Default().Get(source, target)
			if err != nil {
				return err
			}
			doc, err := tree.ParseFile(input)
			if err != nil {
				return err
			}
			out, err := conv.Convert(doc.Elements)
			if err != nil {
				return err
			}

			dest := output
			if dest == "" {
				stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
				dest = filepath.Join(filepath.Dir(input),
					fmt.Sprintf("%s-%s.%s", stem, target, conv.Ext()))
			}

			if dryRun {
				fmt.Printf("dry run: would write to %s\n\n%s\n", dest, preview(out))
			} else {
				if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Printf("written to %s\n", dest)
			}

			stats := transform.Analyze(doc)
			logger.Info("transform done",
				"source", source, "target", target,
				"elements", stats.TotalElements,
				"content_items", stats.ContentItems,
				"preservation", stats.PreservationLabel)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print a preview instead of writing")
	return cmd
}

func transformSiteCmd() *cobra.Command {
	var outputDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "transform-site <source> <target> <dir|zip>",
		Short: "Convert a full site export, continuing past per-page failures",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cliLogger()
			source, target, input := strings.ToLower(args[0]), strings.ToLower(args[1]), args[2]

			conv, err := convert.Default().Get(source, target)
			if err != nil {
				return err
			}

			parser := site.NewParser(logger)
			var st *site.Site
			if strings.EqualFold(filepath.Ext(input), ".zip") {
				st, err = parser.ParseZip(input)
			} else {
				st, err = parser.ParseDir(input)
			}
			if err != nil {
				// Not a structured export: treat the directory as loose
				// page files, the way single-page transform does.
				return transformLooseFiles(conv, target, input, outputDir, dryRun)
			}

			dest := outputDir
			if dest == "" {
				dest = strings.TrimSuffix(input, filepath.Ext(input)) + "-" + target
			}
			if !dryRun {
				if err := os.MkdirAll(dest, 0o755); err != nil {
					return err
				}
			}

			ok, failed := 0, 0
			writePage := func(name string, doc *tree.Document) {
				out, err := conv.Convert(doc.Elements)
				if err != nil {
					logger.Warn("page failed", "page", name, "error", err)
					failed++
					return
				}
				path := filepath.Join(dest, name+"."+conv.Ext())
				if dryRun {
					fmt.Printf("dry run: would write %s\n", path)
				} else if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
					logger.Warn("page failed", "page", name, "error", err)
					failed++
					return
				}
				ok++
			}

			for _, p := range st.Pages {
				writePage(p.Slug, p.Document)
			}
			for _, t := range st.Templates {
				writePage("template-"+t.Type, t.Document)
			}

			// Global colors and fonts travel as a stylesheet next to the
			// converted pages.
			if css := siteCSS(&st.Settings); css != "" && !dryRun {
				if err := os.WriteFile(filepath.Join(dest, "global.css"), []byte(css), 0o644); err != nil {
					logger.Warn("global css", "error", err)
				}
			}

			fmt.Printf("site converted: %d ok, %d failed, output in %s\n", ok, failed, dest)
			if failed > 0 {
				return fmt.Errorf("%d pages failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list outputs instead of writing")
	return cmd
}

func transformLooseFiles(conv convert.Converter, target, dir, outputDir string, dryRun bool) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no JSON files found in %s", dir)
	}

	dest := outputDir
	if dest == "" {
		dest = filepath.Join(dir, "transformed-"+target)
	}
	if !dryRun {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return err
		}
	}

	ok, failed := 0, 0
	for _, f := range files {
		doc, err := tree.ParseFile(f)
		if err != nil {
			slog.Warn("file failed", "file", f, "error", err)
			failed++
			continue
		}
		out, err := conv.Convert(doc.Elements)
		if err != nil {
			slog.Warn("file failed", "file", f, "error", err)
			failed++
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(f), ".json")
		path := filepath.Join(dest, stem+"."+conv.Ext())
		if dryRun {
			fmt.Printf("dry run: would write %s\n", path)
		} else if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			slog.Warn("file failed", "file", f, "error", err)
			failed++
			continue
		}
		ok++
	}

	fmt.Printf("converted: %d ok, %d failed, output in %s\n", ok, failed, dest)
	if failed > 0 {
		return fmt.Errorf("%d files failed", failed)
	}
	return nil
}

func siteCSS(s *site.Settings) string {
	if len(s.Colors) == 0 && len(s.Fonts) == 0 {
		return ""
	}
	var b strings.Builder
	if imp := s.GoogleFontsImport(); imp != "" {
		b.WriteString(imp)
		b.WriteString("\n")
	}
	b.WriteString(s.CSSVariables())
	b.WriteString("\n")
	return b.String()
}

func preview(s string) string {
	if len(s) <= previewBytes {
		return s
	}
	return s[:previewBytes] + "\n..."
}
