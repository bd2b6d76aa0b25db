package operations

import (
	"sync"
	"time"

	"envcli/internal/config"
	"envcli/internal/dataset"
	"envcli/pkg/contracts/domain"
)

// OperationStatus represents the overall operation status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState carries everything one pipeline run needs: the fixed inputs
// set before Execute, the per-Step runtime states, and the artifacts Steps
// hand to their successors.
type OperationState struct {
	mu sync.RWMutex

	id        string
	status    OperationStatus
	startTime time.Time
	endTime   *time.Time
	err       error

	steps     map[string]*StepState
	stepOrder []string

	// Inputs fixed before the run starts. Steps treat these as read-only.
	Config     *config.Config
	Paths      *config.Paths
	Request    domain.AnalysisRequest
	InputPath  string
	OutputBase string

	// Artifacts produced as Steps complete.
	table        *dataset.Table
	result       *domain.AnalysisResult
	writtenFiles []string
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		id:        id,
		status:    OperationStatusPending,
		startTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

// ID returns the operation identifier
func (p *OperationState) ID() string {
	return p.id
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = OperationStatusRunning
	p.startTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.endTime = &now
	p.status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.endTime = &now
	p.status = OperationStatusFailed
	p.err = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.endTime = &now
	p.status = OperationStatusCancelled
}

// Status returns the current operation status
func (p *OperationState) Status() OperationStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Err returns the failure recorded by Fail, if any
func (p *OperationState) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// RegisterStep adds a Step state in execution order. Registering twice for
// the same ID replaces the earlier state.
func (p *OperationState) RegisterStep(state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.steps[state.ID()]; !exists {
		p.stepOrder = append(p.stepOrder, state.ID())
	}
	p.steps[state.ID()] = state
}

// GetStep returns the state of a specific Step, or nil when unknown
func (p *OperationState) GetStep(stepID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.steps[stepID]
}

// StepSnapshots returns value copies of every Step state in execution order
func (p *OperationState) StepSnapshots() []StepSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snapshots := make([]StepSnapshot, 0, len(p.stepOrder))
	for _, id := range p.stepOrder {
		if st, ok := p.steps[id]; ok {
			snapshots = append(snapshots, st.Snapshot())
		}
	}
	return snapshots
}

// HasFailures returns true if any Step has failed
func (p *OperationState) HasFailures() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, st := range p.steps {
		if st.Status() == StepStatusFailed {
			return true
		}
	}
	return false
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.endTime != nil {
		return p.endTime.Sub(p.startTime)
	}
	return time.Since(p.startTime)
}

// SetTable stores the loaded input table for downstream Steps
func (p *OperationState) SetTable(t *dataset.Table) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.table = t
}

// Table returns the loaded input table, or nil before the load Step ran
func (p *OperationState) Table() *dataset.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.table
}

// SetResult stores the analysis result for downstream Steps
func (p *OperationState) SetResult(r *domain.AnalysisResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result = r
}

// Result returns the analysis result, or nil before the analyze Step ran
func (p *OperationState) Result() *domain.AnalysisResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result
}

// AddWrittenFiles records output paths produced by the export Step
func (p *OperationState) AddWrittenFiles(paths ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writtenFiles = append(p.writtenFiles, paths...)
}

// WrittenFiles returns a copy of every output path recorded so far
func (p *OperationState) WrittenFiles() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.writtenFiles))
	copy(out, p.writtenFiles)
	return out
}
