package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "uttianguis/internal/errors"
)

// ProductState is the moderation state derived from a product's flags.
type ProductState string

const (
	ProductPendingApproval ProductState = "pending"
	ProductApproved        ProductState = "approved"
	ProductRejected        ProductState = "rejected"
	// ProductWithdrawn is a soft-deleted product that was never decided.
	ProductWithdrawn ProductState = "withdrawn"
)

// State derives the moderation state. Rejection always clears IsApproved, so a
// set RejectedAt only counts while the product is unapproved.
func (p *Product) State() ProductState {
	switch {
	case p.IsApproved:
		return ProductApproved
	case p.RejectedAt != nil:
		return ProductRejected
	case !p.IsActive:
		return ProductWithdrawn
	default:
		return ProductPendingApproval
	}
}

// Approve makes the product visible to buyers and stamps the approver.
// With strict set only a pending product may be approved.
func (p *Product) Approve(adminID uuid.UUID, at time.Time, strict bool) error {
	if strict && p.State() != ProductPendingApproval {
		return fmt.Errorf("%w: product is %s", apperrors.ErrAlreadyDecided, p.State())
	}
	p.IsApproved = true
	p.ApprovedByID = &adminID
	p.ApprovedAt = &at
	return nil
}

// Reject hides the product for good: it is unapproved and soft-deleted in one step.
func (p *Product) Reject(adminID uuid.UUID, at time.Time, reason string, strict bool) error {
	if strict && p.State() != ProductPendingApproval {
		return fmt.Errorf("%w: product is %s", apperrors.ErrAlreadyDecided, p.State())
	}
	p.IsApproved = false
	p.IsActive = false
	p.RejectionReason = reason
	p.RejectedByID = &adminID
	p.RejectedAt = &at
	return nil
}

// ReturnToReview clears an approval so the product re-enters the pending queue.
func (p *Product) ReturnToReview() {
	p.IsApproved = false
	p.ApprovedByID = nil
	p.ApprovedAt = nil
}

// ReportStatus is the lifecycle state of a report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "Pending"
	ReportResolved ReportStatus = "Resolved"
	// ReportRejected means the report was dismissed as invalid.
	ReportRejected ReportStatus = "Rejected"
)

// Terminal reports whether no further transition is expected from s.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportRejected
}

// ParseReportStatus accepts a status name case-insensitively.
func ParseReportStatus(s string) (ReportStatus, bool) {
	for _, st := range []ReportStatus{ReportPending, ReportResolved, ReportRejected} {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Resolve closes the report as acted upon.
func (r *Report) Resolve(adminID uuid.UUID, at time.Time, response string, strict bool) error {
	return r.decide(ReportResolved, adminID, at, response, strict)
}

// Dismiss closes the report as invalid.
func (r *Report) Dismiss(adminID uuid.UUID, at time.Time, reason string, strict bool) error {
	return r.decide(ReportRejected, adminID, at, reason, strict)
}

func (r *Report) decide(to ReportStatus, adminID uuid.UUID, at time.Time, response string, strict bool) error {
	if strict && r.Status.Terminal() {
		return fmt.Errorf("%w: report is %s", apperrors.ErrAlreadyDecided, r.Status)
	}
	r.Status = to
	r.AdminResponse = response
	r.ResolvedByID = &adminID
	r.ResolvedAt = &at
	return nil
}
