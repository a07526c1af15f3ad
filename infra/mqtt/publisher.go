package mqtt

import (
	"fmt"
	"sync"

	coremqtt "github.com/floodlab/riskdispatch/core/mqtt"
	"github.com/floodlab/riskdispatch/core/plan"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Plans []plan.DispatchPlan
	Fail  bool
	mu    sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishPlan records the plan or returns an error if configured to fail.
func (m *MockPublisher) PublishPlan(p plan.DispatchPlan) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return "", fmt.Errorf("publish failed")
	}
	m.Plans = append(m.Plans, p)
	return fmt.Sprintf("msg-%d", len(m.Plans)), nil
}

// Published returns a snapshot of the plans published so far.
func (m *MockPublisher) Published() []plan.DispatchPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]plan.DispatchPlan, len(m.Plans))
	copy(out, m.Plans)
	return out
}
