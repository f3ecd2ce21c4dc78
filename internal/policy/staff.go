// Package policy wires the clinic's access rules into a gate. Only one
// capability is privileged: managing staff accounts, reserved for the admin
// and it roles. Everything else just needs an authenticated active session.
package policy

import (
	"context"

	"github.com/g3company/healthclinic/internal/gate"
	"github.com/g3company/healthclinic/internal/models"
)

// ResourceStaff is the gate resource name for staff account management.
const ResourceStaff = "staff"

// staffPolicy admits admin and it roles for every staff action.
type staffPolicy struct{}

func (staffPolicy) Can(_ context.Context, user *models.User, _ gate.Action, _ any) bool {
	if user == nil || !user.IsActive {
		return false
	}
	return user.CanManageStaff()
}

// NewGate builds the clinic gate with all policies registered.
func NewGate() *gate.Gate[*models.User] {
	g := gate.NewGate[*models.User]()
	g.Register(ResourceStaff, staffPolicy{})
	return g
}
