package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"simple-bible/internal/bible"
)

var readTranslation string

var readCmd = &cobra.Command{
	Use:   "read <book> [chapter]",
	Short: "Print a chapter",
	Long: `Print a chapter to standard output.

The book is a 1-based number, a full name or an unambiguous prefix
("gen", "1 cor"). The chapter defaults to 1; a chapter the book does
not have prints chapter 1.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapter := 1
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid chapter %q", args[1])
			}
			chapter = n
		}

		return withApp(func(a *app) error {
			ctx := cmd.Context()
			r, err := bible.Load(ctx, a.catalog, a.client, a.translation(readTranslation))
			if err != nil {
				return err
			}
			book, err := r.Find(args[0])
			if err != nil {
				return err
			}
			verses, err := r.Chapter(ctx, book, chapter)
			if err != nil {
				return err
			}

			if chapter < 1 || chapter > book.Chapters {
				chapter = 1
			}
			cmd.Printf("%s %d (%s)\n\n", book.Name, chapter, r.Language())
			for i, text := range verses {
				cmd.Printf("%d %s\n", i+1, text)
			}
			return nil
		})
	},
}

var booksTranslation string

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List the books of a translation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(a *app) error {
			books, err := a.catalog.Books(cmd.Context(), a.translation(booksTranslation))
			if err != nil {
				return err
			}
			for i, b := range books {
				cmd.Printf("%2d  %-20s %3d\n", i+1, b.Name, b.Chapters)
			}
			return nil
		})
	},
}

func init() {
	readCmd.Flags().StringVarP(&readTranslation, "translation", "t", "", "translation to read (default: last used)")
	booksCmd.Flags().StringVarP(&booksTranslation, "translation", "t", "", "translation (default: last used)")
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(booksCmd)
}
