package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent practice sessions",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		sessions, err := store.ListSessions(profileID(), sessionsLimit)
		if err != nil {
			fmt.Println("❌ Error listing sessions:", err)
			return
		}
		if len(sessions) == 0 {
			fmt.Println("📭 No sessions yet. Start one with: unilex practice")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Session\tCreated\tMode\tItems\tState\tAccuracy")
		fmt.Fprintln(w, "-------\t-------\t----\t-----\t-----\t--------")
		for _, s := range sessions {
			accuracy := "-"
			if s.Recap != nil {
				accuracy = fmt.Sprintf("%.0f%%", s.Recap.Accuracy*100)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
				s.SessionID,
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				s.Config.Mode,
				s.Progress.CurrentIndex, len(s.Items),
				s.State(),
				accuracy)
		}
		w.Flush()

		fmt.Println("\nResume an unfinished session with: unilex practice --resume <session>")
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "l", 10, "Show at most this many sessions, -1 for all")
}
