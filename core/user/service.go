package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
)

const (
	pwdMinLen      = 8
	pwdMinLenStaff = 12
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		SetUserRoles(ctx context.Context, userID int, roleIDs []int) error
		AssignRole(ctx context.Context, userID, roleID int) error
		RemoveRole(ctx context.Context, userID, roleID int) error

		CreateRole(ctx context.Context, role Role) (Role, error)
		QueryAllRoles(ctx context.Context) ([]Role, error)
		GetRoleByID(ctx context.Context, id int) (Role, error)
		GetRoleByName(ctx context.Context, name string) (Role, error)
		GetRolesByID(ctx context.Context, ids []int) ([]Role, error)
		UpdateRole(ctx context.Context, role Role) (Role, error)
		DeleteRole(ctx context.Context, id int) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// minPasswordLen is role-dependent: staff accounts (admin, teacher) require
// longer passwords.
func minPasswordLen(roles []Role) int {
	for _, role := range roles {
		if role.Name == RoleAdmin || role.Name == RoleTeacher {
			return pwdMinLenStaff
		}
	}
	return pwdMinLen
}

func checkPasswordLen(pwd string, roles []Role) error {
	if minLen := minPasswordLen(roles); len(pwd) < minLen {
		return core.Conflict(fmt.Sprintf("password must contain at least %d characters", minLen))
	}
	return nil
}

// resolveRoles turns role IDs into roles, defaulting to the student role when
// none are provided.
func (svc *Service) resolveRoles(ctx context.Context, roleIDs []int) ([]Role, error) {
	if len(roleIDs) == 0 {
		role, err := svc.repo.GetRoleByName(ctx, RoleStudent)
		if err != nil {
			if core.IsKind(err, core.KindNotFound) {
				return nil, nil // defaults not seeded yet; user is created roleless
			}
			return nil, errors.Wrap(err, "getting default role")
		}
		return []Role{role}, nil
	}

	roles, err := svc.repo.GetRolesByID(ctx, roleIDs)
	if err != nil {
		return nil, errors.Wrap(err, "getting roles by id")
	}
	uniq := make(map[int]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		uniq[id] = struct{}{}
	}
	if len(roles) != len(uniq) {
		return nil, core.NotFound("role not found")
	}
	return roles, nil
}

func roleIDs(roles []Role) []int {
	ids := make([]int, 0, len(roles))
	for _, role := range roles {
		ids = append(ids, role.ID)
	}
	return ids
}

func roleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	roles, err := svc.resolveRoles(ctx, nu.RoleIDs)
	if err != nil {
		return User{}, err
	}
	if err = checkPasswordLen(nu.Password, roles); err != nil {
		return User{}, err
	}

	usr := User{
		Email:     nu.Email,
		FullName:  nu.FullName,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err = usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err = svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	if len(roles) > 0 {
		if err = svc.repo.SetUserRoles(ctx, usr.ID, roleIDs(roles)); err != nil {
			return User{}, errors.Wrap(err, "assigning roles")
		}
		usr.Roles = roleNames(roles)
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject: fmt.Sprintf("Welcome to %s", svc.conf.AppName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour account has been created. Sign in at %s with your email address.",
			usr.FullName, svc.conf.FrontendBaseURL,
		),
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id int, uu UpdateUser) (User, error) {
	orig, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	usr := User{ID: id}
	if uu.FullName != nil {
		usr.FullName = *uu.FullName
	}
	if uu.Password != nil {
		// the password rule is checked against the roles the user will
		// hold after this update
		names := orig.Roles
		var roles []Role
		if uu.RoleIDs != nil {
			if roles, err = svc.resolveRoles(ctx, uu.RoleIDs); err != nil {
				return User{}, err
			}
			names = roleNames(roles)
		}
		held := make([]Role, 0, len(names))
		for _, name := range names {
			held = append(held, Role{Name: name})
		}
		if err = checkPasswordLen(*uu.Password, held); err != nil {
			return User{}, err
		}
		if err = usr.SetPassword(*uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}

	usr, err = svc.repo.UpdateUser(ctx, usr, uu.IsActive)
	if err != nil {
		return User{}, err
	}

	if uu.RoleIDs != nil {
		roles, err := svc.resolveRoles(ctx, uu.RoleIDs)
		if err != nil {
			return User{}, err
		}
		if err = svc.repo.SetUserRoles(ctx, id, roleIDs(roles)); err != nil {
			return User{}, errors.Wrap(err, "setting roles")
		}
		usr.Roles = roleNames(roles)
	}
	return usr, nil
}

// Deactivate soft-deletes a user; accounts are never hard-deleted.
func (svc *Service) Deactivate(ctx context.Context, id int) (User, error) {
	if _, err := svc.repo.GetUserByID(ctx, id); err != nil {
		return User{}, err
	}
	isActive := false
	return svc.repo.UpdateUser(ctx, User{ID: id}, &isActive)
}

func (svc *Service) AssignRole(ctx context.Context, userID, roleID int) (User, error) {
	if _, err := svc.repo.GetUserByID(ctx, userID); err != nil {
		return User{}, err
	}
	if _, err := svc.repo.GetRoleByID(ctx, roleID); err != nil {
		return User{}, err
	}
	if err := svc.repo.AssignRole(ctx, userID, roleID); err != nil {
		return User{}, err
	}
	return svc.repo.GetUserByID(ctx, userID)
}

func (svc *Service) RemoveRole(ctx context.Context, userID, roleID int) (User, error) {
	if _, err := svc.repo.GetUserByID(ctx, userID); err != nil {
		return User{}, err
	}
	if _, err := svc.repo.GetRoleByID(ctx, roleID); err != nil {
		return User{}, err
	}
	if err := svc.repo.RemoveRole(ctx, userID, roleID); err != nil {
		return User{}, err
	}
	return svc.repo.GetUserByID(ctx, userID)
}

// Roles

func (svc *Service) CreateRole(ctx context.Context, nr NewRole) (Role, error) {
	role := Role{Name: nr.Name, CreatedAt: time.Now().UTC()}
	if nr.Description != "" {
		role.Description.SetValid(nr.Description)
	}
	return svc.repo.CreateRole(ctx, role)
}

func (svc *Service) QueryAllRoles(ctx context.Context) ([]Role, error) {
	return svc.repo.QueryAllRoles(ctx)
}

func (svc *Service) GetRoleByID(ctx context.Context, id int) (Role, error) {
	return svc.repo.GetRoleByID(ctx, id)
}

func (svc *Service) UpdateRole(ctx context.Context, id int, ur UpdateRole) (Role, error) {
	role, err := svc.repo.GetRoleByID(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if ur.Name != nil && *ur.Name != role.Name {
		role.Name = *ur.Name
	}
	if ur.Description != nil {
		role.Description.SetValid(*ur.Description)
	}
	return svc.repo.UpdateRole(ctx, role)
}

func (svc *Service) DeleteRole(ctx context.Context, id int) error {
	if _, err := svc.repo.GetRoleByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteRole(ctx, id)
}

// EnsureDefaultRoles creates the base roles if they do not exist.
func (svc *Service) EnsureDefaultRoles(ctx context.Context) error {
	existing, err := svc.repo.QueryAllRoles(ctx)
	if err != nil {
		return errors.Wrap(err, "querying roles")
	}
	names := NewRoleSet(roleNames(existing)...)
	for _, name := range DefaultRoles {
		if names.Has(name) {
			continue
		}
		role := Role{Name: name, CreatedAt: time.Now().UTC()}
		role.Description.SetValid("Rol " + core.CleanString(name, true /* lower */))
		if _, err = svc.repo.CreateRole(ctx, role); err != nil {
			return errors.Wrapf(err, "creating default role %q", name)
		}
	}
	return nil
}
