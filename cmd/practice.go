package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/session"
	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

var (
	practiceCount      int
	practiceMode       string
	practiceTopics     []string
	practiceDifficulty int
	practiceSide       string
	practiceResume     string
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive practice session",
	Long: `Run an interactive practice session over the word bank.
New sessions are built from the configured mode and filters; --resume
reopens an existing session where it left off.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		engine, err := newEngine(store)
		if err != nil {
			fmt.Println("❌ Engine error:", err)
			return
		}

		s, err := openOrCreateSession(engine, store)
		if err != nil {
			fmt.Println("❌", err)
			return
		}

		reader := bufio.NewReader(os.Stdin)
		for {
			s, err = runSession(engine, s, reader)
			if err != nil {
				fmt.Println("❌", err)
				return
			}
			if !s.Progress.IsComplete {
				fmt.Printf("\nSession paused. Resume with: unilex practice --resume %s\n", s.SessionID)
				return
			}

			printRecap(s)
			replay, ok := offerMissedReplay(engine, s, reader)
			if !ok {
				return
			}
			s = replay
		}
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)
	practiceCmd.Flags().IntVarP(&practiceCount, "count", "n", 10, "Number of items in the session")
	practiceCmd.Flags().StringVarP(&practiceMode, "mode", "m", "mixed", "Selection mode: new, review, or mixed")
	practiceCmd.Flags().StringSliceVarP(&practiceTopics, "topics", "t", nil, "Restrict to these topics")
	practiceCmd.Flags().IntVarP(&practiceDifficulty, "difficulty", "d", 0, "Maximum difficulty 1-5, 0 for any")
	practiceCmd.Flags().StringVarP(&practiceSide, "side", "s", "term", "Card side shown first: term or translation")
	practiceCmd.Flags().StringVarP(&practiceResume, "resume", "r", "", "Resume the session with this id")
}

func openOrCreateSession(engine *session.Engine, store *storage.Store) (*models.Session, error) {
	if practiceResume != "" {
		s, err := engine.Open(practiceResume)
		if err != nil {
			return nil, fmt.Errorf("resuming session: %v", err)
		}
		return s, nil
	}

	mode, err := parseMode(practiceMode)
	if err != nil {
		return nil, err
	}
	side, err := parseSide(practiceSide)
	if err != nil {
		return nil, err
	}

	pool, err := store.Pool(storage.WordFilter{
		Topics:        practiceTopics,
		MaxDifficulty: practiceDifficulty,
	})
	if err != nil {
		return nil, fmt.Errorf("loading word pool: %v", err)
	}

	cfg := models.SessionConfig{
		TargetLanguage: envOrDefault("UNILEX_TARGET_LANG", "es"),
		NativeLanguage: envOrDefault("UNILEX_NATIVE_LANG", "en"),
		Difficulty:     practiceDifficulty,
		Mode:           mode,
		ItemCount:      practiceCount,
		TopicTags:      practiceTopics,
		Side:           side,
	}
	return engine.Create(profileID(), cfg, pool)
}

// runSession plays the session until it completes or the learner quits.
func runSession(engine *session.Engine, s *models.Session, reader *bufio.Reader) (*models.Session, error) {
	for session.CanGrade(s) {
		item := s.CurrentItem()
		position := session.EffectiveIndex(s) + 1

		flagMark := ""
		if item.IsFlagged {
			flagMark = " 🚩"
		}
		fmt.Printf("\n[%d/%d]%s %s\n", position, len(s.Items), flagMark, item.Prompt)
		fmt.Print("Press Enter to reveal...")
		started := time.Now()
		reader.ReadString('\n')
		fmt.Printf("→ %s\n", item.Rubric)

		fmt.Print("Correct? [y/n, f=flag, u=undo, q=quit]: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return s, fmt.Errorf("reading input: %v", err)
		}
		answer := strings.ToLower(strings.TrimSpace(input))

		switch answer {
		case "y", "n":
			outcome := models.Outcome{
				Correct:         answer == "y",
				DurationSeconds: time.Since(started).Seconds(),
			}
			if outcome.Correct {
				outcome.Score = 1
			}
			s, err = engine.Grade(s.SessionID, item.ItemID, outcome)
			if err != nil {
				return s, fmt.Errorf("grading: %v", err)
			}

		case "f":
			s, err = engine.Flag(s.SessionID, item.ItemID, !item.IsFlagged)
			if err != nil {
				return s, fmt.Errorf("flagging: %v", err)
			}

		case "u":
			if !engine.CanUndo(s.SessionID) {
				fmt.Println("⚠️ Nothing to undo")
				continue
			}
			s, err = engine.Undo(s.SessionID)
			if err != nil {
				return s, fmt.Errorf("undoing: %v", err)
			}

		case "q":
			return s, nil

		default:
			fmt.Println("⚠️ Unrecognized input, item not graded")
		}
	}
	return s, nil
}

func printRecap(s *models.Session) {
	r := s.Recap
	if r == nil {
		return
	}

	fmt.Println("\n🎉 Session complete!")
	fmt.Printf("Accuracy: %.0f%%\n", r.Accuracy*100)
	for _, action := range r.RecommendedActions {
		fmt.Printf("  💡 %s\n", action)
	}
	if len(r.DueQueue) > 0 {
		soonest := r.DueQueue[0].DueAt
		for _, entry := range r.DueQueue[1:] {
			if entry.DueAt.Before(soonest) {
				soonest = entry.DueAt
			}
		}
		fmt.Printf("%d words rescheduled, next due %s\n", len(r.DueQueue), soonest.Local().Format("Mon 15:04"))
	}
}

func parseMode(s string) (models.ReviewMode, error) {
	switch strings.ToLower(s) {
	case "new":
		return models.NewOnly, nil
	case "review":
		return models.ReviewOnly, nil
	case "mixed":
		return models.Mixed, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want new, review, or mixed)", s)
	}
}

func parseSide(s string) (models.PresentationSide, error) {
	switch strings.ToLower(s) {
	case "term":
		return models.SideTerm, nil
	case "translation":
		return models.SideTranslation, nil
	default:
		return "", fmt.Errorf("unknown side %q (want term or translation)", s)
	}
}

// offerMissedReplay asks whether to rerun the items missed in a completed
// session and builds the replay when accepted.
func offerMissedReplay(engine *session.Engine, s *models.Session, reader *bufio.Reader) (*models.Session, bool) {
	missed := 0
	for i := range s.Items {
		if last := s.Items[i].LastAttempt(); last != nil && !last.Correct {
			missed++
		}
	}
	if missed == 0 {
		return nil, false
	}

	fmt.Printf("\nReplay the %d missed items? [y/N]: ", missed)
	input, err := reader.ReadString('\n')
	if err != nil || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
		return nil, false
	}

	replay, err := engine.RestartWithSubset(s.SessionID, session.SubsetMissed)
	if err != nil {
		fmt.Println("❌ Restarting with missed items:", err)
		return nil, false
	}
	return replay, true
}
