package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aogrady3/Stack-Expressions/internal/config"
	"github.com/aogrady3/Stack-Expressions/internal/orchestrator"
	"github.com/aogrady3/Stack-Expressions/pkg/calc"
)

var errNoTask = errors.New("no tasks available")

const resultTimeout = 5 * time.Second

type Agent struct {
	baseURL        string
	computingPower int
	pollInterval   time.Duration
	opDurations    map[string]time.Duration
	client         *http.Client
}

func New(cfg config.Config, client *http.Client) *Agent {
	if client == nil {
		client = http.DefaultClient
	}
	return &Agent{
		baseURL:        strings.TrimRight(cfg.OrchestratorURL, "/"),
		computingPower: cfg.ComputingPower,
		pollInterval:   cfg.PollInterval,
		opDurations:    cfg.OpDurations,
		client:         client,
	}
}

// Run starts ComputingPower workers and blocks until ctx is cancelled and
// every worker has returned.
func (a *Agent) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < a.computingPower; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			a.worker(ctx, n)
		}(i)
	}
	wg.Wait()
}

func (a *Agent) worker(ctx context.Context, n int) {
	for ctx.Err() == nil {
		ok, err := a.Process(ctx)
		if err != nil && ctx.Err() == nil {
			log.Printf("worker %d: %v", n, err)
		}
		if !ok && !sleep(ctx, a.pollInterval) {
			return
		}
	}
}

// Process runs a single fetch, evaluate and report cycle. It reports whether
// a task was handled. A result that is already computed when ctx is
// cancelled is still reported, so the expression is not left in progress.
func (a *Agent) Process(ctx context.Context) (bool, error) {
	task, err := a.fetchTask(ctx)
	if errors.Is(err, errNoTask) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	res, waited := a.work(ctx, task)
	sendCtx := ctx
	if !waited {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), resultTimeout)
		defer cancel()
	}
	if err := a.sendResult(sendCtx, res); err != nil {
		return true, err
	}
	return true, nil
}

// work evaluates the task and then waits the configured time for every
// reduction performed, simulating a slow computing resource. It reports
// false if ctx ended the wait early; the result is filled in either way.
func (a *Agent) work(ctx context.Context, task orchestrator.Task) (orchestrator.TaskResult, bool) {
	steps, value, err := calc.Trace(task.Expression)

	res := orchestrator.TaskResult{ID: task.ID, Result: value}
	if err != nil {
		res.Error = err.Error()
	}

	var total time.Duration
	for _, s := range steps {
		total += a.opDurations[s.Op]
	}
	return res, sleep(ctx, total)
}

func (a *Agent) fetchTask(ctx context.Context) (orchestrator.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/task", nil)
	if err != nil {
		return orchestrator.Task{}, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return orchestrator.Task{}, fmt.Errorf("fetch task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return orchestrator.Task{}, errNoTask
	}
	if resp.StatusCode != http.StatusOK {
		return orchestrator.Task{}, fmt.Errorf("fetch task: status %s", resp.Status)
	}

	var taskResp map[string]orchestrator.Task
	if err := json.NewDecoder(resp.Body).Decode(&taskResp); err != nil {
		return orchestrator.Task{}, fmt.Errorf("decode task: %w", err)
	}
	task, ok := taskResp["task"]
	if !ok || task.ID == "" {
		return orchestrator.Task{}, errors.New("decode task: response has no task id")
	}
	return task, nil
}

func (a *Agent) sendResult(ctx context.Context, res orchestrator.TaskResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/task/result", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send result: status %s", resp.Status)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
