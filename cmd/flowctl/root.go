package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowctl",
		Short:         "Work with question class trees",
		Long:          color.CyanString("flowctl") + "\nCanonicalize and check the question class trees agents classify with.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newCanonCmd(), newCheckCmd(), newSchemaCmd())
	return root
}

// readTree loads a tree from path ("-" is stdin). The document may be a
// bare tree, an agent or an export, and may be slightly broken JSON.
func readTree(cmd *cobra.Command, path string) (*flow.Tree, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	tree, err := flow.ParseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newCanonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canon <file>",
		Short: "Print the tree as the editor would save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), flow.Canonicalize(tree))
		},
	}
}

func newCheckCmd() *cobra.Command {
	var toolsFile string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report what a load and save round trip would change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := flow.DefaultCatalog()
			if toolsFile != "" {
				data, err := os.ReadFile(toolsFile)
				if err != nil {
					return err
				}
				catalog = flow.ParseCatalog(data)
			}

			tree, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			stats, issues := flow.Inspect(tree, catalog)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "classes=%d terminal=%d max_depth=%d tools=%d\n",
				stats.Classes, stats.Terminal, stats.MaxDepth, len(stats.Tools))
			for _, issue := range issues {
				fmt.Fprintf(out, "[%s] %s\n", color.RedString("FAIL"), issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issue(s) found", len(issues))
			}
			fmt.Fprintf(out, "[%s] tree is canonical\n", color.GreenString("OK"))
			return nil
		},
	}
	cmd.Flags().StringVar(&toolsFile, "tools", "", "Tool catalog JSON (defaults to the built-in catalog)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a question class tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), flow.Schema())
		},
	}
}
