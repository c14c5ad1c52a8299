package orchestrator

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const DefaultLease = time.Minute

type Orchestrator struct {
	mu          sync.RWMutex
	expressions map[string]*Expression
	order       []string
	queue       []string
	// deadlines of in-progress tasks; an expired one goes back to the queue
	leases map[string]time.Time
	lease  time.Duration
	now    func() time.Time
}

type Option func(*Orchestrator)

// WithLease sets how long an agent may hold a task before it is handed to
// another agent.
func WithLease(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.lease = d
		}
	}
}

func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		expressions: make(map[string]*Expression),
		leases:      make(map[string]time.Time),
		lease:       DefaultLease,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/v1/calculate", o.HandleCalculate)
	r.Get("/api/v1/expressions", o.HandleGetExpressions)
	r.Get("/api/v1/expressions/{id}", o.HandleGetExpression)
	r.Get("/task", o.HandleGetTask)
	r.Post("/task/result", o.HandlePostTaskResult)

	return r
}

// Submit stores expr as pending, queues it for the agents and returns its ID.
func (o *Orchestrator) Submit(expr string) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := uuid.New().String()
	o.expressions[id] = &Expression{
		ID:         id,
		Expression: expr,
		Status:     StatusPending,
	}
	o.order = append(o.order, id)
	o.queue = append(o.queue, id)
	return id
}

// Get returns a copy of the stored expression.
func (o *Orchestrator) Get(id string) (Expression, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	expr, ok := o.expressions[id]
	if !ok {
		return Expression{}, false
	}
	return *expr, true
}

func (o *Orchestrator) List() []Expression {
	o.mu.RLock()
	defer o.mu.RUnlock()

	list := make([]Expression, 0, len(o.order))
	for _, id := range o.order {
		list = append(list, *o.expressions[id])
	}
	return list
}

// NextTask hands out the oldest pending expression and marks it in progress
// until its lease runs out.
func (o *Orchestrator) NextTask() (Task, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.requeueExpired()
	if len(o.queue) == 0 {
		return Task{}, false
	}
	id := o.queue[0]
	o.queue = o.queue[1:]

	expr := o.expressions[id]
	expr.Status = StatusInProgress
	o.leases[id] = o.now().Add(o.lease)
	return Task{ID: id, Expression: expr.Expression}, true
}

// requeueExpired puts tasks whose agent never reported back at the end of
// the queue, in submission order. Callers hold o.mu.
func (o *Orchestrator) requeueExpired() {
	if len(o.leases) == 0 {
		return
	}
	now := o.now()
	for _, id := range o.order {
		deadline, ok := o.leases[id]
		if !ok || now.Before(deadline) {
			continue
		}
		delete(o.leases, id)
		o.expressions[id].Status = StatusPending
		o.queue = append(o.queue, id)
		log.Printf("Lease on expression %s expired, requeued", id)
	}
}

func (o *Orchestrator) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusUnprocessableEntity)
		return
	}
	if strings.TrimSpace(req.Expression) == "" {
		http.Error(w, "Invalid expression", http.StatusUnprocessableEntity)
		return
	}

	id := o.Submit(req.Expression)
	log.Printf("Received expression %s: %q", id, req.Expression)

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (o *Orchestrator) HandleGetExpressions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]Expression{"expressions": o.List()})
}

func (o *Orchestrator) HandleGetExpression(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	expr, ok := o.Get(id)
	if !ok {
		http.Error(w, "Expression not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]Expression{"expression": expr})
}

func (o *Orchestrator) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := o.NextTask()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No tasks available"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]Task{"task": task})
}

func (o *Orchestrator) HandlePostTaskResult(w http.ResponseWriter, r *http.Request) {
	var res TaskResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil || res.ID == "" {
		http.Error(w, "Invalid data", http.StatusUnprocessableEntity)
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	expr, exists := o.expressions[res.ID]
	if !exists {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	if expr.Status != StatusInProgress {
		http.Error(w, "Task is not in progress", http.StatusConflict)
		return
	}

	delete(o.leases, expr.ID)
	if res.Error != "" {
		expr.Status = StatusError
		expr.Error = res.Error
		log.Printf("Expression %s failed: %s", expr.ID, res.Error)
	} else {
		expr.Status = StatusCompleted
		expr.Result = res.Result
		log.Printf("Expression %s = %d", expr.ID, res.Result)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Result received"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
