package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/discochess/openingweeks/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the opening catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the effective catalog in match order",
	Long: `Print the catalog that analyze would use, in match order. The first
entry whose moves prefix a game wins, so order matters when lines overlap.

Use --yaml to print the catalog in the file format accepted by --catalog.`,
	Args: cobra.NoArgs,
	RunE: runCatalogList,
}

var catalogVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every catalog line is a legal move sequence",
	Long: `Replay each catalog line from the initial position in UCI notation and
report lines that contain an illegal move. Such lines can still match games
whose move field carries the same text, but they usually indicate a typo.`,
	Args: cobra.NoArgs,
	RunE: runCatalogVerify,
}

var listYAML bool

func init() {
	catalogListCmd.Flags().BoolVar(&listYAML, "yaml", false, "print the catalog as YAML")
	catalogCmd.AddCommand(catalogListCmd, catalogVerifyCmd)
	rootCmd.AddCommand(catalogCmd)
}

func effectiveCatalog() (*catalog.Catalog, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.BuildCatalog()
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat, err := effectiveCatalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listYAML {
		data, err := yaml.Marshal(cat.FileEntries())
		if err != nil {
			return fmt.Errorf("marshaling catalog: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	if cat.Len() == 0 {
		fmt.Fprintln(out, "Catalog is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tCOLOR\tMOVES")
	for i, e := range cat.Entries() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, e.Name, e.Color, e.Line())
	}
	return tw.Flush()
}

func runCatalogVerify(cmd *cobra.Command, args []string) error {
	cat, err := effectiveCatalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Verifying %d catalog lines...\n", cat.Len())

	issues := catalog.Verify(cat)
	for _, issue := range issues {
		fmt.Fprintf(out, "  ERROR: %s\n", issue)
	}
	if len(issues) > 0 {
		return errors.New("catalog contains illegal lines")
	}

	fmt.Fprintln(out, "All lines are legal.")
	return nil
}
