package cmd

import (
	"fmt"
	"os"

	"asset-extractor/core/loader"
	"asset-extractor/core/resultcache"
	"asset-extractor/core/storage"
	"asset-extractor/feature/discovery"
	"asset-extractor/feature/wiki"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportMod     string
	exportVersion string
	exportOut     string
	exportForce   bool
	exportPublish bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [root]",
	Short: "Export the species data document",
	Long: `Discovers species under the given root (default /Game), derives their
wiki data and writes a versioned JSON document. Unchanged inputs are
served from the result cache; --force regenerates regardless.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "/Game"
		if exportMod != "" {
			root = "/Game/Mods/" + exportMod
		}
		if len(args) > 0 {
			root = args[0]
		}

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
		if exportPublish {
			if store, err = storage.NewClient(cfg.Storage); err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
		}

		d := discovery.New(l, logg)
		found, err := d.Run(root, loader.FindOptions{}, discovery.Species)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(found))
		for _, c := range found {
			names = append(names, c.Name)
		}
		logg.Info("Discovered species", zap.String("root", root), zap.Int("count", len(names)))

		e := wiki.NewExporter(l, results, store, cfg.Storage.Bucket, exportVersion, logg)
		payload, cached, err := e.ExportSpecies(exportMod, names, exportForce)
		if err != nil {
			return err
		}

		if cached {
			logg.Info("Export unchanged, serving cached document", zap.String("out", exportOut))
		}
		if err := os.WriteFile(exportOut, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		logg.Info("Export written", zap.String("out", exportOut), zap.Int("bytes", len(payload)))

		if exportPublish {
			if err := e.Publish(cmd.Context(), exportMod, payload); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMod, "mod", "", "Mod tag to export instead of the base game")
	exportCmd.Flags().StringVar(&exportVersion, "game-version", "0.0", "Game version stamped into the document")
	exportCmd.Flags().StringVar(&exportOut, "out", "species.json", "Output file")
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "Regenerate even when inputs are unchanged")
	exportCmd.Flags().BoolVar(&exportPublish, "publish", false, "Publish the document to object storage")
}
