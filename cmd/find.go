package cmd

import (
	"fmt"

	"asset-extractor/core/loader"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	findIncludes []string
	findExcludes []string
	findExts     []string
	findInvert   bool
)

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find [root]",
	Short: "List asset names under a content root",
	Long: `Walks the content tree behind the given canonical root (default /Game)
and prints the canonical name of every matching container file.`,
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

		seq, err := l.FindAssetNames(root, loader.FindOptions{
			Includes:   findIncludes,
			Excludes:   findExcludes,
			Extensions: findExts,
			Invert:     findInvert,
		})
		if err != nil {
			return err
		}

		count := 0
		for name := range seq {
			fmt.Println(name)
			count++
		}
		logg.Info("Find completed", zap.String("root", root), zap.Int("assets", count))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(findCmd)

	findCmd.Flags().StringSliceVar(&findIncludes, "include", nil, "Regex a name must match to override excludes")
	findCmd.Flags().StringSliceVar(&findExcludes, "exclude", nil, "Regex of names to skip")
	findCmd.Flags().StringSliceVar(&findExts, "ext", nil, "Container extensions to scan (default .uasset)")
	findCmd.Flags().BoolVar(&findInvert, "invert", false, "Print exactly the names a normal scan would skip")
}
