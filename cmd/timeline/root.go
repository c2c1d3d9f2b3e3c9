// timeline разбирает трудовую историю из JSON файла без запуска сервера:
//
//	timeline gaps -f history.json
//	timeline references -f history.json [--no-current] [--no-previous] [--no-vulnerable]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "timeline",
		Short:         "Анализ трудовой истории соискателя",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringP("file", "f", "", "JSON файл с трудовой историей (- для stdin)")
	root.PersistentFlags().Bool("json", false, "вывод в JSON")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(newGapsCmd())
	root.AddCommand(newReferencesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
