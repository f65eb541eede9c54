package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowTransitions(t *testing.T) {
	assert.True(t, WorkflowPending.CanTransitionTo(WorkflowApproved))
	assert.True(t, WorkflowPending.CanTransitionTo(WorkflowRejected))
	assert.True(t, WorkflowPending.CanTransitionTo(WorkflowCancelled))
	assert.False(t, WorkflowPending.CanTransitionTo(WorkflowPending))
	assert.False(t, WorkflowApproved.CanTransitionTo(WorkflowRejected))
	assert.False(t, WorkflowRejected.CanTransitionTo(WorkflowApproved))
}

func TestApprovalChain(t *testing.T) {
	role, ok := ApproverForStep(1)
	assert.True(t, ok)
	assert.Equal(t, RoleSupervisor, role)

	role, ok = ApproverForStep(3)
	assert.True(t, ok)
	assert.Equal(t, RoleRegionalDirector, role)

	_, ok = ApproverForStep(4)
	assert.False(t, ok)

	req := FinancialRequest{CurrentStep: 3}
	assert.True(t, req.IsFinalStep())
}

func TestTripTicketDistance(t *testing.T) {
	end := 1250
	tt := TripTicket{OdometerStart: 1000}
	assert.Equal(t, 0, tt.Distance())
	tt.OdometerEnd = &end
	assert.Equal(t, 250, tt.Distance())
}

func TestSubAllotmentBalance(t *testing.T) {
	s := SubAllotment{Amount: 1000, Obligated: 250.5}
	assert.InDelta(t, 749.5, s.Balance(), 0.001)
}
