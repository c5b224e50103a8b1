package cmd

import (
	"fmt"

	"asset-extractor/core/loader"
	"asset-extractor/feature/discovery"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scanKinds    []string
	scanExcludes []string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Discover species, structures and items under a content root",
	Long: `Probes every container under the given root (default /Game) with cheap
byte markers, parses the survivors and confirms their kind through class
ancestry. Unreadable assets are skipped with a warning.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "/Game"
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

		testers, err := selectTesters(scanKinds)
		if err != nil {
			return err
		}

		d := discovery.New(l, logg)
		found, err := d.Run(root, loader.FindOptions{Excludes: scanExcludes}, testers...)
		if err != nil {
			return err
		}

		counts := map[string]int{}
		for _, c := range found {
			fmt.Printf("%-10s %s\n", c.Kind, c.Name)
			counts[c.Kind]++
		}
		logg.Info("Scan completed",
			zap.String("root", root),
			zap.Int("total", len(found)),
			zap.Any("kinds", counts))
		return nil
	},
}

func selectTesters(kinds []string) ([]*discovery.Tester, error) {
	all := map[string]*discovery.Tester{
		"species":   discovery.Species,
		"structure": discovery.Structures,
		"item":      discovery.Items,
	}
	if len(kinds) == 0 {
		return []*discovery.Tester{discovery.Species, discovery.Structures, discovery.Items}, nil
	}

	testers := make([]*discovery.Tester, 0, len(kinds))
	for _, kind := range kinds {
		tester, ok := all[kind]
		if !ok {
			return nil, fmt.Errorf("unknown kind %q (species, structure, item)", kind)
		}
		testers = append(testers, tester)
	}
	return testers, nil
}

func init() {
	RootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanKinds, "kind", nil, "Kinds to discover (species, structure, item; default all)")
	scanCmd.Flags().StringSliceVar(&scanExcludes, "exclude", nil, "Regex of names to skip")
}
