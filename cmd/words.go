package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
)

var (
	wordsTopics     []string
	wordsDifficulty int
	wordsLimit      int
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List words in the word bank",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		words, err := store.ListWords(storage.WordFilter{
			Topics:        wordsTopics,
			MaxDifficulty: wordsDifficulty,
			Limit:         wordsLimit,
		})
		if err != nil {
			fmt.Println("❌ Error listing words:", err)
			return
		}
		if len(words) == 0 {
			fmt.Println("📭 No words match. Import some with: unilex import --file words.xlsx")
			return
		}

		fmt.Printf("📚 %d words:\n\n", len(words))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Term\tTranslation\tTopic\tDiff\tNotes")
		fmt.Fprintln(w, "----\t-----------\t-----\t----\t-----")
		for _, word := range words {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				word.Term, word.Translation, word.Topic, word.Difficulty, word.Notes)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsCmd.Flags().StringSliceVarP(&wordsTopics, "topics", "t", nil, "Restrict to these topics")
	wordsCmd.Flags().IntVarP(&wordsDifficulty, "difficulty", "d", 0, "Maximum difficulty 1-5, 0 for any")
	wordsCmd.Flags().IntVarP(&wordsLimit, "limit", "l", 0, "Show at most this many words, 0 for all")
}
