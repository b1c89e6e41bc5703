package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"simple-bible/internal/bible"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the chapters you have read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(a *app) error {
			records, err := a.history.List(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("no history")
				return nil
			}

			canon := bible.Canon()
			for _, r := range records {
				sel := r.Selection
				name := fmt.Sprintf("book %d", sel.BookIndex+1)
				if sel.BookIndex >= 0 && sel.BookIndex < len(canon) {
					name = canon[sel.BookIndex].Name
				}
				cmd.Printf("%s\t%s\t%s %d\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), sel.Translation, name, sel.Chapter)
			}
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
