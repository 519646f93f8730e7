package postgresrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := `
		INSERT INTO users (email, full_name, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, query, usr.Email, usr.FullName, usr.PasswordHash, usr.IsActive, usr.CreatedAt,
	).Scan(&usr.ID)
	if err != nil {
		return user.User{}, translateErr(err, "user not found", "email already registered")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := repo.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	for i := range users {
		if err := repo.attachRoles(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, `SELECT * FROM users WHERE id = $1`, id); err != nil {
		return user.User{}, translateErr(err, "user not found", "")
	}
	if err := repo.attachRoles(ctx, &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, `SELECT * FROM users WHERE email = $1`, email); err != nil {
		return user.User{}, translateErr(err, "user not found", "")
	}
	if err := repo.attachRoles(ctx, &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	query := `
		UPDATE users SET
			full_name = CASE WHEN $2 != '' THEN $2 ELSE full_name END,
			password_hash = CASE WHEN length($3) > 0 THEN $3 ELSE password_hash END,
			is_active = COALESCE($4, is_active),
			updated_at = $5
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, usr.ID, usr.FullName, usr.PasswordHash, isActive, time.Now().UTC())
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, core.NotFound("user not found")
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo *userRepository) SetUserRoles(ctx context.Context, userID int, roleIDs []int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return errors.Wrap(err, "clearing user roles")
	}
	for _, roleID := range roleIDs {
		if _, err = tx.ExecContext(
			ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID,
		); err != nil {
			return errors.Wrap(err, "inserting user role")
		}
	}
	return errors.Wrap(tx.Commit(), "committing user roles")
}

func (repo *userRepository) AssignRole(ctx context.Context, userID, roleID int) error {
	// idempotent on membership
	_, err := repo.db.ExecContext(
		ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, roleID,
	)
	return errors.Wrap(err, "assigning role")
}

func (repo *userRepository) RemoveRole(ctx context.Context, userID, roleID int) error {
	_, err := repo.db.ExecContext(
		ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID,
	)
	return errors.Wrap(err, "removing role")
}

func (repo *userRepository) attachRoles(ctx context.Context, usr *user.User) error {
	query := `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`
	if err := repo.db.SelectContext(ctx, &usr.Roles, query, usr.ID); err != nil {
		return errors.Wrap(err, "selecting user roles")
	}
	return nil
}

// Roles

func (repo *userRepository) CreateRole(ctx context.Context, role user.Role) (user.Role, error) {
	query := `
		INSERT INTO roles (name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, role.Name, role.Description, role.CreatedAt).Scan(&role.ID)
	if err != nil {
		return user.Role{}, translateErr(err, "role not found", "role already exists")
	}
	return role, nil
}

func (repo *userRepository) QueryAllRoles(ctx context.Context) ([]user.Role, error) {
	var roles []user.Role
	if err := repo.db.SelectContext(ctx, &roles, `SELECT * FROM roles ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "selecting roles")
	}
	return roles, nil
}

func (repo *userRepository) GetRoleByID(ctx context.Context, id int) (user.Role, error) {
	var role user.Role
	if err := repo.db.GetContext(ctx, &role, `SELECT * FROM roles WHERE id = $1`, id); err != nil {
		return user.Role{}, translateErr(err, "role not found", "")
	}
	return role, nil
}

func (repo *userRepository) GetRoleByName(ctx context.Context, name string) (user.Role, error) {
	var role user.Role
	if err := repo.db.GetContext(ctx, &role, `SELECT * FROM roles WHERE name = $1`, name); err != nil {
		return user.Role{}, translateErr(err, "role not found", "")
	}
	return role, nil
}

func (repo *userRepository) GetRolesByID(ctx context.Context, ids []int) ([]user.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM roles WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building roles query")
	}
	var roles []user.Role
	if err = repo.db.SelectContext(ctx, &roles, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "selecting roles by id")
	}
	return roles, nil
}

func (repo *userRepository) UpdateRole(ctx context.Context, role user.Role) (user.Role, error) {
	query := `UPDATE roles SET name = $2, description = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, role.ID, role.Name, role.Description)
	if err != nil {
		return user.Role{}, translateErr(err, "role not found", "role already exists")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.Role{}, core.NotFound("role not found")
	}
	return role, nil
}

func (repo *userRepository) DeleteRole(ctx context.Context, id int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	return errors.Wrap(err, "deleting role")
}
