package cmd

import (
	"fmt"

	"asset-extractor/core/resultcache"
	"asset-extractor/core/storage"
	"asset-extractor/feature/wiki"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var wipePublished bool

// wipeCmd represents the wipe command
var wipeCmd = &cobra.Command{
	Use:   "wipe <mod-tag>",
	Short: "Drop every derived artifact of a mod",
	Long: `Removes a mod's entries from the asset cache and the result cache so the
next export regenerates from scratch. With --published, also removes the
mod's documents from object storage.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modTag := args[0]

		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		l, err := buildLoader(cfg, logg)
		if err != nil {
			return err
		}
		results, err := resultcache.Open(cfg.ResultCache, logg)
		if err != nil {
			return err
		}

		var store storage.Client
		if wipePublished {
			if store, err = storage.NewClient(cfg.Storage); err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
		}

		e := wiki.NewExporter(l, results, store, cfg.Storage.Bucket, "", logg)
		if err := e.WipeMod(cmd.Context(), modTag); err != nil {
			return err
		}
		logg.Info("Mod artifacts wiped", zap.String("mod", modTag), zap.Bool("published", wipePublished))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(wipeCmd)

	wipeCmd.Flags().BoolVar(&wipePublished, "published", false, "Also remove published objects from storage")
}
