package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"simple-bible/internal/bible"
)

var (
	searchTranslation string
	searchLimit       int
)

var searchCmd = &cobra.Command{
	Use:   "search <words...>",
	Short: "Search a translation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withApp(func(a *app) error {
			ctx := cmd.Context()
			translation := a.translation(searchTranslation)
			resp, err := a.client.SearchVerses(ctx, translation, query, searchLimit)
			if err != nil {
				return err
			}
			r, err := bible.Load(ctx, a.catalog, a.client, translation)
			if err != nil {
				return err
			}

			for _, v := range resp.Results {
				name := "?"
				if b, err := r.ByID(v.Book); err == nil {
					name = b.Name
				}
				cmd.Printf("%s %d:%d  %s\n", name, v.Chapter, v.Verse, bible.CleanVerse(v.Text))
			}
			cmd.Printf("\n%d of %d matches in %s\n", len(resp.Results), resp.Total, translation)
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchTranslation, "translation", "t", "", "translation to search (default: last used)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
