// Package status manages the phase and conditions of an onboarding session.
package status

import (
	"time"

	"github.com/spotlesstofu/podman-peerpods/api/v1alpha1"
)

// SetCondition adds or updates a condition.
// LastTransitionTime only moves when the status changes.
func SetCondition(o *v1alpha1.Onboarding, condType string, status v1alpha1.ConditionStatus, reason, message string) {
	now := v1alpha1.Time{Time: time.Now()}

	for i := range o.Status.Conditions {
		if o.Status.Conditions[i].Type == condType {
			existing := &o.Status.Conditions[i]
			if existing.Status != status {
				existing.LastTransitionTime = now
			}
			existing.Status = status
			existing.Reason = reason
			existing.Message = message
			return
		}
	}

	o.Status.Conditions = append(o.Status.Conditions, v1alpha1.Condition{
		Type:               condType,
		Status:             status,
		LastTransitionTime: now,
		Reason:             reason,
		Message:            message,
	})
}

// GetCondition returns a condition by type, or nil if not found.
func GetCondition(o *v1alpha1.Onboarding, condType string) *v1alpha1.Condition {
	for i := range o.Status.Conditions {
		if o.Status.Conditions[i].Type == condType {
			return &o.Status.Conditions[i]
		}
	}
	return nil
}

// IsConditionTrue returns true if the condition exists and has status True.
func IsConditionTrue(o *v1alpha1.Onboarding, condType string) bool {
	cond := GetCondition(o, condType)
	return cond != nil && cond.Status == v1alpha1.ConditionTrue
}
