package course

import "time"

// PassThreshold is the ratio of correct answers required to complete a module.
const PassThreshold = 0.60

// DefaultQuizDuration is how long a quiz attempt stays open.
const DefaultQuizDuration = 10 * time.Minute

// Status is the per-user state of a module.
// Transitions are monotonic: locked -> unlocked -> completed, never backward.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusUnlocked  Status = "unlocked"
	StatusCompleted Status = "completed"
)

var statusRanks = map[Status]int{
	StatusLocked:    0,
	StatusUnlocked:  1,
	StatusCompleted: 2,
}

func (s Status) Rank() int { return statusRanks[s] }

// Link is an external reference attached to a module.
type Link struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Question has exactly one correct option, matched by case-sensitive string equality.
// The correct answer never leaves the server.
type Question struct {
	Prompt        string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"-" yaml:"correctAnswer"`
}

// Module is an immutable content unit supplied by the content provider.
// SequenceIndex is the position in the course ordering; unlock propagation
// always targets SequenceIndex+1, whatever the display ID is.
type Module struct {
	ID            int        `json:"id" yaml:"id"`
	SequenceIndex int        `json:"sequence_index" yaml:"-"`
	Title         string     `json:"title" yaml:"title"`
	Content       string     `json:"content" yaml:"content"`
	Links         []Link     `json:"links" yaml:"links"`
	Quiz          []Question `json:"-" yaml:"quiz"`
}

// ModuleStatus is the mutable per-user record for one module.
type ModuleStatus struct {
	ModuleID int    `json:"moduleId" db:"module_id"`
	Status   Status `json:"status" db:"status"`
}

// QuizResult is the outcome of one submitted attempt, as shown to the user.
type QuizResult struct {
	Score  int  `json:"score"`
	Total  int  `json:"total"`
	Passed bool `json:"passed"`
}

// QuizOutcome is a submitted attempt as recorded in the user's result history.
type QuizOutcome struct {
	ModuleID    int       `json:"moduleId" db:"module_id"`
	Score       int       `json:"score" db:"score"`
	Total       int       `json:"total" db:"total"`
	Passed      bool      `json:"passed" db:"passed"`
	CompletedAt time.Time `json:"completedAt" db:"completed_at"` // UTC
}

// Passed reports whether score/total meets the pass threshold.
// A zero-question outcome never passes.
func Passed(score, total int) bool {
	return total > 0 && float64(score)/float64(total) >= PassThreshold
}
