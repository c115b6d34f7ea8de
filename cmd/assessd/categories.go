package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/assessd/internal/config"
	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List available category definitions",
	Long: `List the category definitions available to the assess command,
either the built-in set or the contents of definitions.dir when configured.

Examples:
  # List built-in categories
  assessd categories

  # List categories from a custom definition directory
  assessd categories --config config.yaml`,
	RunE: runCategories,
}

func runCategories(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var (
		source scoring.DefinitionSource
		names  []string
	)
	if cfg.Definitions.Dir != "" {
		fsSource := scoring.NewFSSource(cfg.Definitions.Dir)
		source, names = fsSource, fsSource.Categories()
	} else {
		embedded := scoring.NewEmbeddedSource()
		source, names = embedded, embedded.Categories()
	}
	if len(names) == 0 {
		return fmt.Errorf("no category definitions found")
	}

	for _, name := range names {
		def, err := source.Load(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d practices\t%d gaps\n",
			def.Category, def.Version, len(def.Practices), len(def.Gaps))
	}
	return nil
}
