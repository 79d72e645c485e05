package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Active(t *testing.T) {
	assert.True(t, BookingPending.Active())
	assert.True(t, BookingConfirmed.Active())
	assert.False(t, BookingCancelled.Active())
	assert.False(t, BookingCompleted.Active())
}

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingPending, BookingConfirmed},
		{BookingPending, BookingCancelled},
		{BookingPending, BookingCompleted},
		{BookingConfirmed, BookingCancelled},
		{BookingConfirmed, BookingCompleted},
	}
	for _, tr := range allowed {
		assert.True(t, tr.from.CanTransitionTo(tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	all := []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}
	for _, to := range all {
		assert.False(t, BookingCancelled.CanTransitionTo(to), "cancelled is terminal")
		assert.False(t, BookingCompleted.CanTransitionTo(to), "completed is terminal")
	}
	assert.False(t, BookingConfirmed.CanTransitionTo(BookingPending))
	assert.False(t, BookingConfirmed.CanTransitionTo(BookingConfirmed))
}

func TestRole_Capabilities(t *testing.T) {
	assert.True(t, RoleAdmin.Capabilities().ManageWorkspaces)
	assert.True(t, RoleAdmin.Privileged())

	for _, r := range []Role{RoleEmployee, RoleLearner, RoleGeneral} {
		assert.True(t, r.Capabilities().BookWorkspace)
		assert.False(t, r.Capabilities().ManageUsers)
		assert.False(t, r.Privileged())
	}

	assert.True(t, RoleEmployee.Capabilities().ViewAnalytics)
	assert.False(t, RoleLearner.Capabilities().ViewAnalytics)

	assert.False(t, Role("superuser").Valid())
	assert.True(t, RoleGeneral.Valid())
}
