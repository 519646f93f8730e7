package postgresrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/period"
)

type periodRepository struct {
	db *sqlx.DB
}

var _ period.Repository = (*periodRepository)(nil)

func NewPeriodRepository(db *sqlx.DB) *periodRepository {
	return &periodRepository{db: db}
}

func (repo *periodRepository) CreatePeriod(ctx context.Context, per period.AcademicPeriod) (period.AcademicPeriod, error) {
	query := `
		INSERT INTO academic_periods (code, name, start_date, end_date, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, query, per.Code, per.Name, per.StartDate, per.EndDate, per.IsActive, per.CreatedAt,
	).Scan(&per.ID)
	if err != nil {
		return period.AcademicPeriod{}, translateErr(err, "period not found", "period code already exists")
	}
	return per, nil
}

func (repo *periodRepository) QueryAllPeriods(ctx context.Context) ([]period.AcademicPeriod, error) {
	var pers []period.AcademicPeriod
	if err := repo.db.SelectContext(ctx, &pers, `SELECT * FROM academic_periods ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "selecting periods")
	}
	return pers, nil
}

func (repo *periodRepository) GetPeriodByID(ctx context.Context, id int) (period.AcademicPeriod, error) {
	var per period.AcademicPeriod
	if err := repo.db.GetContext(ctx, &per, `SELECT * FROM academic_periods WHERE id = $1`, id); err != nil {
		return period.AcademicPeriod{}, translateErr(err, "period not found", "")
	}
	return per, nil
}

func (repo *periodRepository) UpdatePeriod(ctx context.Context, per period.AcademicPeriod) (period.AcademicPeriod, error) {
	query := `
		UPDATE academic_periods
		SET name = $2, start_date = $3, end_date = $4, is_active = $5
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, per.ID, per.Name, per.StartDate, per.EndDate, per.IsActive)
	if err != nil {
		return period.AcademicPeriod{}, errors.Wrap(err, "updating period")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return period.AcademicPeriod{}, core.NotFound("period not found")
	}
	return per, nil
}
