package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/reminder"
)

var remindWatch bool

// printNotifier reports due words on stdout for one-shot checks.
type printNotifier struct{}

func (printNotifier) SendDueReminder(count int) error {
	fmt.Printf("🔔 You have %d words due for review\n", count)
	return nil
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Check for due words and send a reminder",
	Long: `Check for due words and send a reminder. By default runs a single
check and exits; --watch keeps an hourly check running until interrupted,
respecting the REMINDER_START_HOUR/REMINDER_END_HOUR window.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		if !remindWatch {
			r := reminder.New(store, printNotifier{}, reminder.DefaultConfig())
			count, err := r.RunManualCheck()
			if err != nil {
				fmt.Println("❌ Reminder check failed:", err)
				return
			}
			if count == 0 {
				fmt.Println("✅ Nothing due right now.")
			}
			return
		}

		r := reminder.New(store, reminder.LogNotifier{}, reminder.DefaultConfig())
		r.Start()
		defer r.Stop()
		log.Println("Reminder loop started. Press Ctrl+C to stop.")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.Printf("Received signal: %v, shutting down", sig)
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.Flags().BoolVarP(&remindWatch, "watch", "w", false, "Keep checking hourly until interrupted")
}
