package cli

import (
	"github.com/spf13/cobra"
)

var translationsLanguage string

var translationsCmd = &cobra.Command{
	Use:   "translations",
	Short: "List the translations the API offers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(a *app) error {
			list, err := a.client.GetTranslations(cmd.Context(), translationsLanguage)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				cmd.Printf("no translations for %s\n", translationsLanguage)
				return nil
			}
			for _, tr := range list {
				mark := " "
				if a.cache.IsCached(tr.ShortName) {
					mark = "*"
				}
				cmd.Printf("%s %-8s %s\n", mark, tr.ShortName, tr.FullName)
			}
			return nil
		})
	},
}

func init() {
	translationsCmd.Flags().StringVarP(&translationsLanguage, "language", "l", "English", "language group")
	rootCmd.AddCommand(translationsCmd)
}
