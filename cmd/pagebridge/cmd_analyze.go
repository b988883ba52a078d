package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/pagebridge/convert"
	"github.com/hazyhaar/pagebridge/transform"
	"github.com/hazyhaar/pagebridge/tree"
)

func analyzeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "analyze <framework> <file>",
		Short: "Report element counts, zone partition, and content inventory for a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliLogger()
			framework := strings.ToLower(args[0])
			if framework != "elementor" {
				return fmt.Errorf("no parser for framework %q (supported: elementor)", framework)
			}

			doc, err := tree.ParseFile(args[1])
			if err != nil {
				return err
			}
			stats := transform.Analyze(doc)

			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, out, 0o644); err != nil {
					return fmt.Errorf("write analysis: %w", err)
				}
				fmt.Printf("analysis written to %s\n", output)
				return nil
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write analysis to file")
	return cmd
}

func pairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "List supported conversion pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range convert.Default().Pairs() {
				fmt.Printf("%s -> %s\n", p.Source, p.Target)
			}
			return nil
		},
	}
}
