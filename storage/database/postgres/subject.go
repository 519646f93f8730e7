package postgresrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/subject"
)

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *sqlx.DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	query := `
		INSERT INTO subjects (code, name, credits, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, query, sub.Code, sub.Name, sub.Credits, sub.IsActive, sub.CreatedAt,
	).Scan(&sub.ID)
	if err != nil {
		return subject.Subject{}, translateErr(err, "subject not found", "subject code already exists")
	}
	return sub, nil
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context) ([]subject.Subject, error) {
	var subs []subject.Subject
	if err := repo.db.SelectContext(ctx, &subs, `SELECT * FROM subjects ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "selecting subjects")
	}
	return subs, nil
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id int) (subject.Subject, error) {
	var sub subject.Subject
	if err := repo.db.GetContext(ctx, &sub, `SELECT * FROM subjects WHERE id = $1`, id); err != nil {
		return subject.Subject{}, translateErr(err, "subject not found", "")
	}
	return sub, nil
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	query := `UPDATE subjects SET name = $2, credits = $3, is_active = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, sub.ID, sub.Name, sub.Credits, sub.IsActive)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return subject.Subject{}, core.NotFound("subject not found")
	}
	return sub, nil
}
