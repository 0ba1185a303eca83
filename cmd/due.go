package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
)

var dueLimit int

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show words due for review",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		entries, err := store.ListDue(time.Now(), dueLimit)
		if err != nil {
			fmt.Println("❌ Error listing due words:", err)
			return
		}
		if len(entries) == 0 {
			fmt.Println("✅ Nothing due right now. Good job.")
			return
		}

		fmt.Printf("🔥 %d words due:\n\n", len(entries))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Term\tTranslation\tTopic\tDue")
		fmt.Fprintln(w, "----\t-----------\t-----\t---")
		for _, entry := range entries {
			word, err := store.GetWord(entry.VocabID)
			if errors.Is(err, storage.ErrNotFound) {
				// Scheduler rows can outlive a deleted word.
				continue
			}
			if err != nil {
				fmt.Println("❌ Error loading word:", err)
				return
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				word.Term, word.Translation, word.Topic, entry.DueAt.Local().Format("2006-01-02 15:04"))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)
	dueCmd.Flags().IntVarP(&dueLimit, "limit", "l", -1, "Show at most this many words, -1 for all")
}
