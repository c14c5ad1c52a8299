package orchestrator

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

type Expression struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
	Status     string `json:"status"`
	Result     int    `json:"result"`
	Error      string `json:"error,omitempty"`
}

// Task is what an agent receives: one whole expression to evaluate.
type Task struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
}

// TaskResult is posted back by an agent. A non-empty Error means the
// expression could not be evaluated.
type TaskResult struct {
	ID     string `json:"id"`
	Result int    `json:"result"`
	Error  string `json:"error,omitempty"`
}
