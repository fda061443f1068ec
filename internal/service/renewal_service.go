package service

import (
	"context"
	"fmt"
	"time"

	"renewal-tracker/internal/core/cache"
	"renewal-tracker/internal/domain"
	"renewal-tracker/pkg/utils"
)

const statsCacheKey = "renewals:statistics"

// RenewalService owns the renewal lifecycle. Status is derived lazily at
// every read from end_date, so the stored column can never go stale; the
// stored value is authoritative only for cancelled.
type RenewalService struct {
	renewals domain.RenewalRepository
	cache    *cache.Cache // optional; nil skips caching
	statsTTL time.Duration
	now      func() time.Time
}

func NewRenewalService(renewals domain.RenewalRepository, c *cache.Cache, statsTTL time.Duration) *RenewalService {
	return &RenewalService{renewals: renewals, cache: c, statsTTL: statsTTL, now: time.Now}
}

func (s *RenewalService) Create(ctx context.Context, ownerID string, in *RenewalInput) (*domain.Renewal, error) {
	fields := validateRenewal(in, false)
	if len(fields) == 0 && in.EndDate.Before(in.StartDate.Time) {
		fields["end_date"] = "end_date must not be before start_date"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	ren := &domain.Renewal{
		ID:           utils.NewID(),
		UserID:       ownerID,
		ServiceName:  *in.ServiceName,
		ServiceType:  *in.ServiceType,
		Provider:     *in.Provider,
		StartDate:    *in.StartDate,
		EndDate:      *in.EndDate,
		Cost:         *in.Cost,
		ReminderType: *in.ReminderType,
		Notes:        in.Notes,
	}
	if in.Status != nil && *in.Status == domain.StatusCancelled {
		ren.Status = domain.StatusCancelled
	} else {
		ren.Status = ren.StatusAt(s.now())
	}
	if err := s.renewals.Create(ctx, ren); err != nil {
		return nil, fmt.Errorf("create renewal: %w", err)
	}
	s.invalidateStats(ctx)
	return ren, nil
}

func (s *RenewalService) Get(ctx context.Context, id string) (*domain.Renewal, error) {
	ren, err := s.renewals.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find renewal: %w", err)
	}
	if ren == nil {
		return nil, domain.ErrNotFound
	}
	ren.Status = ren.StatusAt(s.now())
	return ren, nil
}

// List is the unscoped global view; ownership filtering is the caller's
// decision (member API keeps it open, admin API gates it by role).
func (s *RenewalService) List(ctx context.Context) ([]domain.Renewal, error) {
	rens, err := s.renewals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list renewals: %w", err)
	}
	s.deriveAll(rens)
	return rens, nil
}

func (s *RenewalService) ListForUser(ctx context.Context, userID string) ([]domain.Renewal, error) {
	rens, err := s.renewals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list renewals: %w", err)
	}
	s.deriveAll(rens)
	return rens, nil
}

// Update merges the supplied fields over the stored record and re-checks
// the end/start invariant on the result, so a lone start_date change can
// still be rejected. Omitted fields keep their values.
func (s *RenewalService) Update(ctx context.Context, id string, in *RenewalInput) (*domain.Renewal, error) {
	ren, err := s.renewals.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find renewal: %w", err)
	}
	if ren == nil {
		return nil, domain.ErrNotFound
	}

	fields := validateRenewal(in, true)
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	if in.ServiceName != nil {
		ren.ServiceName = *in.ServiceName
	}
	if in.ServiceType != nil {
		ren.ServiceType = *in.ServiceType
	}
	if in.Provider != nil {
		ren.Provider = *in.Provider
	}
	if in.StartDate != nil {
		ren.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		ren.EndDate = *in.EndDate
	}
	if in.Cost != nil {
		ren.Cost = *in.Cost
	}
	if in.ReminderType != nil {
		ren.ReminderType = *in.ReminderType
	}
	if in.Status != nil {
		ren.Status = *in.Status
	}
	if in.Notes != nil {
		ren.Notes = in.Notes
	}

	if ren.EndDate.Before(ren.StartDate.Time) {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"end_date": "end_date must not be before start_date",
		}}
	}

	// Refresh the stored column on the way through; cancelled set above
	// survives because StatusAt treats it as sticky.
	ren.Status = ren.StatusAt(s.now())
	if err := s.renewals.Update(ctx, ren); err != nil {
		return nil, fmt.Errorf("update renewal: %w", err)
	}
	s.invalidateStats(ctx)
	return ren, nil
}

func (s *RenewalService) Delete(ctx context.Context, id string) error {
	if err := s.renewals.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// Statistics aggregates over the full renewal set at the instant of the
// call. The redis cache in front is short-lived and invalidated on every
// write, so the numbers track the store closely without re-scanning on
// every dashboard poll.
func (s *RenewalService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	if s.cache == nil {
		return s.computeStatistics(ctx)
	}
	return cache.GetOrLoadJSON[domain.Statistics](s.cache, ctx, statsCacheKey, s.statsTTL,
		func(ctx context.Context) (*domain.Statistics, error) {
			return s.computeStatistics(ctx)
		})
}

func (s *RenewalService) computeStatistics(ctx context.Context) (*domain.Statistics, error) {
	rens, err := s.renewals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list renewals: %w", err)
	}
	now := s.now()
	st := &domain.Statistics{TotalCount: len(rens)}
	var sum float64
	for i := range rens {
		switch rens[i].StatusAt(now) {
		case domain.StatusActive:
			st.ActiveCount++
		case domain.StatusExpiringSoon:
			st.ExpiringSoonCount++
		case domain.StatusExpired:
			st.ExpiredCount++
		}
		sum += rens[i].Cost
	}
	// Truncate, don't round: fractional cents are dropped.
	st.TotalCost = int64(sum)
	return st, nil
}

// ByStatus filters on the derived status. expiring-soon is deliberately not
// selectable here even though statistics breaks it out; the filter set is
// part of the wire contract.
func (s *RenewalService) ByStatus(ctx context.Context, status string) ([]domain.Renewal, error) {
	switch status {
	case domain.StatusActive, domain.StatusExpired, domain.StatusCancelled:
	default:
		return nil, domain.ErrInvalidStatus
	}
	rens, err := s.renewals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list renewals: %w", err)
	}
	now := s.now()
	out := make([]domain.Renewal, 0, len(rens))
	for i := range rens {
		if st := rens[i].StatusAt(now); st == status {
			rens[i].Status = st
			out = append(out, rens[i])
		}
	}
	return out, nil
}

func (s *RenewalService) deriveAll(rens []domain.Renewal) {
	now := s.now()
	for i := range rens {
		rens[i].Status = rens[i].StatusAt(now)
	}
}

func (s *RenewalService) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, statsCacheKey)
	}
}
