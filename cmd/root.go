// Package cmd wires the practice engine, word bank, and reminder loop
// into the unilex command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/session"
	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "unilex",
	Short: "Vocabulary practice with spaced repetition",
	Long: `UniLex runs timed vocabulary practice sessions over a word bank,
scheduling each word's next review with a spaced-repetition curve.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func openStore() (*storage.Store, error) {
	return storage.OpenFromEnv()
}

func newEngine(store *storage.Store) (*session.Engine, error) {
	return session.New(session.Config{Sessions: store, Vocab: store})
}

// profileID resolves the active learner profile.
func profileID() string {
	if p := os.Getenv("UNILEX_PROFILE"); p != "" {
		return p
	}
	return "default"
}

// envOrDefault reads an environment variable with a fallback.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
