package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <translation>",
	Short: "Download a translation for offline reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tr := strings.ToUpper(args[0])
		return withApp(func(a *app) error {
			if a.cache.IsCached(tr) {
				cmd.Printf("%s is already downloaded\n", tr)
				return nil
			}
			cmd.Printf("Downloading %s...\n", tr)
			if err := a.cache.DownloadTranslation(cmd.Context(), tr); err != nil {
				return fmt.Errorf("downloading %s: %w", tr, err)
			}
			cmd.Printf("%s saved to %s\n", tr, a.cache.Dir())
			return nil
		})
	},
}

var cachedCmd = &cobra.Command{
	Use:   "cached",
	Short: "List downloaded translations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(a *app) error {
			translations, err := a.cache.ListCached()
			if err != nil {
				return err
			}
			if len(translations) == 0 {
				cmd.Println("no downloaded translations")
				return nil
			}
			size, err := a.cache.Size()
			if err != nil {
				return err
			}
			for _, tr := range translations {
				cmd.Println(tr)
			}
			cmd.Printf("\n%d translations, %s\n", len(translations), formatSize(size))
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <translation>",
	Short: "Delete a downloaded translation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tr := strings.ToUpper(args[0])
		return withApp(func(a *app) error {
			if !a.cache.IsCached(tr) {
				return fmt.Errorf("%s is not downloaded", tr)
			}
			if err := a.cache.RemoveTranslation(tr); err != nil {
				return err
			}
			cmd.Printf("removed %s\n", tr)
			return nil
		})
	},
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(cachedCmd)
	rootCmd.AddCommand(removeCmd)
}
