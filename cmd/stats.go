package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show word-bank and session statistics",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		pool, err := store.Pool(storage.WordFilter{})
		if err != nil {
			fmt.Println("❌ Error loading word bank:", err)
			return
		}

		now := time.Now()
		seen, due := 0, 0
		for _, entry := range pool {
			if !entry.Seen() {
				continue
			}
			seen++
			if entry.State.IsDue(now) {
				due++
			}
		}

		sessions, err := store.ListSessions(profileID(), -1)
		if err != nil {
			fmt.Println("❌ Error listing sessions:", err)
			return
		}

		completed := 0
		accuracySum := 0.0
		for _, s := range sessions {
			if s.Progress.IsComplete {
				completed++
				if s.Recap != nil {
					accuracySum += s.Recap.Accuracy
				}
			}
		}

		fmt.Println("📊 Statistics")
		fmt.Println("-------------")
		fmt.Printf("Words:          %d (%d seen, %d new)\n", len(pool), seen, len(pool)-seen)
		fmt.Printf("Due now:        %d\n", due)
		fmt.Printf("Sessions:       %d (%d completed)\n", len(sessions), completed)
		if completed > 0 {
			fmt.Printf("Avg accuracy:   %.0f%%\n", accuracySum/float64(completed)*100)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
