package period

import (
	"context"
	"strings"
	"time"

	"github.com/unidigital/academia/core"
)

type (
	Repository interface {
		CreatePeriod(ctx context.Context, per AcademicPeriod) (AcademicPeriod, error)
		QueryAllPeriods(ctx context.Context) ([]AcademicPeriod, error)
		GetPeriodByID(ctx context.Context, id int) (AcademicPeriod, error)
		UpdatePeriod(ctx context.Context, per AcademicPeriod) (AcademicPeriod, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func checkDateRange(start, end time.Time) error {
	if end.Before(start) {
		return core.Conflict("end date must not be before start date")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewPeriod) (AcademicPeriod, error) {
	start, err := parseDate(np.StartDate)
	if err != nil {
		return AcademicPeriod{}, err
	}
	end, err := parseDate(np.EndDate)
	if err != nil {
		return AcademicPeriod{}, err
	}
	if err = checkDateRange(start, end); err != nil {
		return AcademicPeriod{}, err
	}

	per := AcademicPeriod{
		Code:      strings.ToUpper(np.Code),
		Name:      np.Name,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreatePeriod(ctx, per) // duplicate code surfaces as Conflict
}

func (svc *Service) QueryAll(ctx context.Context) ([]AcademicPeriod, error) {
	return svc.repo.QueryAllPeriods(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (AcademicPeriod, error) {
	return svc.repo.GetPeriodByID(ctx, id)
}

// Update applies a partial update. A new boundary date is compared against
// the other boundary's stored value when only one side changes.
func (svc *Service) Update(ctx context.Context, id int, up UpdatePeriod) (AcademicPeriod, error) {
	per, err := svc.repo.GetPeriodByID(ctx, id)
	if err != nil {
		return AcademicPeriod{}, err
	}
	if up.Name != nil {
		per.Name = *up.Name
	}
	if up.StartDate != nil {
		if per.StartDate, err = parseDate(*up.StartDate); err != nil {
			return AcademicPeriod{}, err
		}
	}
	if up.EndDate != nil {
		if per.EndDate, err = parseDate(*up.EndDate); err != nil {
			return AcademicPeriod{}, err
		}
	}
	if up.StartDate != nil || up.EndDate != nil {
		if err = checkDateRange(per.StartDate, per.EndDate); err != nil {
			return AcademicPeriod{}, err
		}
	}
	if up.IsActive != nil {
		per.IsActive = *up.IsActive
	}
	return svc.repo.UpdatePeriod(ctx, per)
}

// Deactivate soft-deletes a period. Existing enrollments keep pointing at it.
func (svc *Service) Deactivate(ctx context.Context, id int) (AcademicPeriod, error) {
	per, err := svc.repo.GetPeriodByID(ctx, id)
	if err != nil {
		return AcademicPeriod{}, err
	}
	per.IsActive = false
	return svc.repo.UpdatePeriod(ctx, per)
}
