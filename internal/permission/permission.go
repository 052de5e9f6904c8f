// Package permission is the single authorization choke point. Every mutating
// service operation calls it before acting; the checks the original screens
// repeated inline live here once.
package permission

import (
	"strings"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/auth"
)

// CampaignTarget carries the campaign attributes the evaluator needs:
// owning department (display name) and creator identity (email).
type CampaignTarget struct {
	Department string
	CreatedBy  string
}

// InfluencerTarget carries the influencer attributes the evaluator needs.
type InfluencerTarget struct {
	CreatedBy string
}

// Evaluator decides what an actor may do to a target. It is a pure
// function of its inputs and never touches storage.
type Evaluator interface {
	CanCreateCampaign(actor auth.Actor) error
	CanMutateCampaign(actor auth.Actor, target CampaignTarget) error
	CanTransitionCampaign(actor auth.Actor, target CampaignTarget) error
	CanDeleteCampaign(actor auth.Actor, target CampaignTarget) error

	CanCreateInfluencer(actor auth.Actor) error
	CanEditInfluencer(actor auth.Actor, target InfluencerTarget) error
	CanDeleteInfluencer(actor auth.Actor, target InfluencerTarget) error

	CanManageUsers(actor auth.Actor) error
	CanResolveAccessRequest(actor auth.Actor, requestDepartmentID string) error

	// CanViewMobile gates the influencer's restricted mobile field.
	// hasApprovedGrant reports whether the actor holds an approved access
	// request for the influencer in question.
	CanViewMobile(actor auth.Actor, hasApprovedGrant bool) bool
}

type DefaultEvaluator struct{}

func NewEvaluator() Evaluator {
	return DefaultEvaluator{}
}

func sameDepartment(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (DefaultEvaluator) CanCreateCampaign(actor auth.Actor) error {
	if actor.Role.Valid() {
		return nil
	}
	return internal.ErrReadOnlyObserver
}

// CanMutateCampaign covers content edits. Admin tier is unrestricted,
// managers own campaigns in their department, executives own only what
// they personally created.
func (DefaultEvaluator) CanMutateCampaign(actor auth.Actor, target CampaignTarget) error {
	if actor.Role.AdminTier() {
		return nil
	}
	if actor.Role == auth.RoleManager {
		if sameDepartment(actor.Department, target.Department) {
			return nil
		}
		return internal.ErrForeignDepartment
	}
	if actor.Role == auth.RoleExecutive {
		if target.CreatedBy != "" && strings.EqualFold(target.CreatedBy, actor.Email) {
			return nil
		}
		return internal.ErrReadOnlyObserver
	}
	return internal.ErrReadOnlyObserver
}

// CanTransitionCampaign covers status changes. Executives never transition,
// not even on campaigns they created.
func (DefaultEvaluator) CanTransitionCampaign(actor auth.Actor, target CampaignTarget) error {
	if actor.Role.AdminTier() {
		return nil
	}
	if actor.Role == auth.RoleManager {
		if sameDepartment(actor.Department, target.Department) {
			return nil
		}
		return internal.ErrForeignDepartment
	}
	return internal.ErrReadOnlyObserver
}

func (e DefaultEvaluator) CanDeleteCampaign(actor auth.Actor, target CampaignTarget) error {
	return e.CanMutateCampaign(actor, target)
}

func (DefaultEvaluator) CanCreateInfluencer(actor auth.Actor) error {
	if actor.Role.Valid() {
		return nil
	}
	return internal.ErrReadOnlyObserver
}

// CanEditInfluencer: ownership is by creator identity, not department.
func (DefaultEvaluator) CanEditInfluencer(actor auth.Actor, target InfluencerTarget) error {
	if actor.Role.AdminTier() {
		return nil
	}
	if target.CreatedBy != "" && strings.EqualFold(target.CreatedBy, actor.Email) {
		return nil
	}
	return internal.ErrNotOwner
}

func (e DefaultEvaluator) CanDeleteInfluencer(actor auth.Actor, target InfluencerTarget) error {
	return e.CanEditInfluencer(actor, target)
}

func (DefaultEvaluator) CanManageUsers(actor auth.Actor) error {
	if actor.Role.AdminTier() {
		return nil
	}
	return internal.ErrAdminRequired
}

// CanResolveAccessRequest: admins resolve anything; a manager only resolves
// requests raised within their own department.
func (DefaultEvaluator) CanResolveAccessRequest(actor auth.Actor, requestDepartmentID string) error {
	if actor.Role.AdminTier() {
		return nil
	}
	if actor.Role == auth.RoleManager {
		if actor.DepartmentID != "" && actor.DepartmentID == requestDepartmentID {
			return nil
		}
		return internal.ErrForeignDepartment
	}
	return internal.ErrReadOnlyObserver
}

// CanViewMobile: the mobile number is visible to everyone except
// executives; an executive needs a currently-approved access request.
func (DefaultEvaluator) CanViewMobile(actor auth.Actor, hasApprovedGrant bool) bool {
	if actor.Role != auth.RoleExecutive {
		return true
	}
	return hasApprovedGrant
}
