package models

import "time"

// ReviewMode controls how a session's item list is built from the candidate pool.
type ReviewMode string

const (
	// ReviewOnly selects only vocabulary the learner has seen before, due-first.
	ReviewOnly ReviewMode = "review_only"
	// Mixed blends new and previously-seen vocabulary.
	Mixed ReviewMode = "mixed"
	// NewOnly selects only vocabulary without scheduler state.
	NewOnly ReviewMode = "new_only"
)

// PresentationSide is which side of a card the learner is shown.
type PresentationSide string

const (
	// SideTerm shows the target-language term; the learner recalls the meaning.
	SideTerm PresentationSide = "term"
	// SideTranslation shows the native-language meaning; the learner produces the term.
	SideTranslation PresentationSide = "translation"
)

// Activity is the kind of recall a graded attempt exercised.
type Activity string

const (
	Recognition Activity = "recognition"
	Production  Activity = "production"
)

// SessionConfig is the fixed configuration a session is created with.
type SessionConfig struct {
	TargetLanguage string           `json:"target_language"`
	NativeLanguage string           `json:"native_language"`
	Difficulty     int              `json:"difficulty"` // 1-5 scale, as in the word bank
	Mode           ReviewMode       `json:"mode"`
	ItemCount      int              `json:"item_count"`
	TopicTags      []string         `json:"topic_tags,omitempty"`
	Side           PresentationSide `json:"side"`
}

// Activity maps the presentation side to the performance tally it exercises.
func (c SessionConfig) Activity() Activity {
	if c.Side == SideTranslation {
		return Production
	}
	return Recognition
}

func (c SessionConfig) clone() SessionConfig {
	out := c
	if c.TopicTags != nil {
		out.TopicTags = append([]string(nil), c.TopicTags...)
	}
	return out
}

// Progress tracks the cursor through a session's fixed item list.
// Invariant: IsComplete implies CurrentIndex == len(Items); CurrentIndex is
// always within [0, len(Items)].
type Progress struct {
	CurrentIndex int       `json:"current_index"`
	IsComplete   bool      `json:"is_complete"`
	LastOpenedAt time.Time `json:"last_opened_at"`
}

// SessionState is the lifecycle position of a session, derived from Progress.
type SessionState string

const (
	NotStarted SessionState = "not_started"
	InProgress SessionState = "in_progress"
	Complete   SessionState = "complete"
)

// Session is one timed run of a fixed ordered list of items for one profile.
type Session struct {
	SessionID string        `json:"session_id"`
	ProfileID string        `json:"profile_id"`
	CreatedAt time.Time     `json:"created_at"`
	Config    SessionConfig `json:"config"`
	Items     []Item        `json:"items"`
	Progress  Progress      `json:"progress"`
	Recap     *Recap        `json:"recap,omitempty"`
}

// State derives the lifecycle state from progress.
func (s *Session) State() SessionState {
	switch {
	case s.Progress.IsComplete:
		return Complete
	case s.Progress.CurrentIndex == 0:
		return NotStarted
	default:
		return InProgress
	}
}

// LastIndex returns the highest valid item index, or 0 for an empty session.
func (s *Session) LastIndex() int {
	if len(s.Items) == 0 {
		return 0
	}
	return len(s.Items) - 1
}

// CurrentItem returns the item at the progress cursor, or nil when the
// session is complete, empty, or the cursor is out of range.
func (s *Session) CurrentItem() *Item {
	if s.Progress.IsComplete {
		return nil
	}
	idx := s.Progress.CurrentIndex
	if idx < 0 || idx >= len(s.Items) {
		return nil
	}
	return &s.Items[idx]
}

// ItemByID returns the item with the given id, or nil if absent.
func (s *Session) ItemByID(itemID string) *Item {
	for i := range s.Items {
		if s.Items[i].ItemID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the session. Mutating the copy never
// affects the original, including item histories and the recap.
func (s *Session) Clone() *Session {
	out := *s
	out.Config = s.Config.clone()
	out.Items = make([]Item, len(s.Items))
	for i := range s.Items {
		out.Items[i] = s.Items[i].Clone()
	}
	out.Recap = s.Recap.Clone()
	return &out
}
