package service

import (
	"strings"

	"renewal-tracker/internal/domain"
)

// RenewalInput is the write payload. Pointer fields let a partial update
// tell "absent" from "zero value".
type RenewalInput struct {
	ServiceName  *string      `json:"service_name"`
	ServiceType  *string      `json:"service_type"`
	Provider     *string      `json:"provider"`
	StartDate    *domain.Date `json:"start_date"`
	EndDate      *domain.Date `json:"end_date"`
	Cost         *float64     `json:"cost"`
	ReminderType *string      `json:"reminder_type"`
	Status       *string      `json:"status"`
	Notes        *string      `json:"notes"`
}

// One rule per field; update runs the same table with required switched
// off, so create and partial update validate uniformly.
type fieldRule struct {
	name     string
	required bool
	present  func(*RenewalInput) bool
	check    func(*RenewalInput) string
}

func strRule(name string, required bool, get func(*RenewalInput) *string) fieldRule {
	return fieldRule{
		name:     name,
		required: required,
		present:  func(in *RenewalInput) bool { return get(in) != nil },
		check: func(in *RenewalInput) string {
			if strings.TrimSpace(*get(in)) == "" {
				return name + " must not be empty"
			}
			return ""
		},
	}
}

func dateRule(name string, get func(*RenewalInput) *domain.Date) fieldRule {
	return fieldRule{
		name:     name,
		required: true,
		present:  func(in *RenewalInput) bool { return get(in) != nil },
		check: func(in *RenewalInput) string {
			if get(in).IsZero() {
				return name + " must be a valid date"
			}
			return ""
		},
	}
}

var renewalRules = []fieldRule{
	strRule("service_name", true, func(in *RenewalInput) *string { return in.ServiceName }),
	strRule("service_type", true, func(in *RenewalInput) *string { return in.ServiceType }),
	strRule("provider", true, func(in *RenewalInput) *string { return in.Provider }),
	dateRule("start_date", func(in *RenewalInput) *domain.Date { return in.StartDate }),
	dateRule("end_date", func(in *RenewalInput) *domain.Date { return in.EndDate }),
	{
		name:     "cost",
		required: true,
		present:  func(in *RenewalInput) bool { return in.Cost != nil },
		check: func(in *RenewalInput) string {
			if *in.Cost < 0 {
				return "cost must not be negative"
			}
			return ""
		},
	},
	strRule("reminder_type", true, func(in *RenewalInput) *string { return in.ReminderType }),
	{
		name:     "status",
		required: false,
		present:  func(in *RenewalInput) bool { return in.Status != nil },
		check: func(in *RenewalInput) string {
			switch *in.Status {
			case domain.StatusActive, domain.StatusExpiringSoon, domain.StatusExpired, domain.StatusCancelled:
				return ""
			}
			return "status must be one of active, expiring-soon, expired, cancelled"
		},
	},
}

// validateRenewal collects every field error before returning; callers wrap
// a non-empty map in domain.ValidationError. The cross-field end/start
// check runs on the merged record, in the service.
func validateRenewal(in *RenewalInput, partial bool) map[string]string {
	fields := map[string]string{}
	for _, r := range renewalRules {
		if !r.present(in) {
			if r.required && !partial {
				fields[r.name] = r.name + " is required"
			}
			continue
		}
		if msg := r.check(in); msg != "" {
			fields[r.name] = msg
		}
	}
	return fields
}
