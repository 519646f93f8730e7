package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

// get must be called with at least the read lock held; the returned copy
// carries its role names.
func (repo *userRepository) get(id int) (user.User, bool) {
	usr, ok := repo.db.users[id]
	if !ok {
		return user.User{}, false
	}
	cp := *usr
	cp.Roles = nil
	var roleIDs []int
	for roleID := range repo.db.userRoles[id] {
		roleIDs = append(roleIDs, roleID)
	}
	sort.Ints(roleIDs)
	for _, roleID := range roleIDs {
		if role, ok := repo.db.roles[roleID]; ok {
			cp.Roles = append(cp.Roles, role.Name)
		}
	}
	return cp, true
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.users {
		if existing.Email == usr.Email {
			return user.User{}, core.Conflict("email already registered")
		}
	}
	usr.ID = repo.db.nextID()
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var ids []int
	for id := range repo.db.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	users := make([]user.User, 0, len(ids))
	for _, id := range ids {
		usr, _ := repo.get(id)
		users = append(users, usr)
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id int) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.get(id); ok {
		return usr, nil
	}
	return user.User{}, core.NotFound("user not found")
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for id, usr := range repo.db.users {
		if usr.Email == email {
			cp, _ := repo.get(id)
			return cp, nil
		}
	}
	return user.User{}, core.NotFound("user not found")
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User, isActive *bool) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, ok := repo.db.users[usr.ID]
	if !ok {
		return user.User{}, core.NotFound("user not found")
	}
	if usr.FullName != "" {
		existing.FullName = usr.FullName
	}
	if len(usr.PasswordHash) > 0 {
		existing.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		existing.IsActive = *isActive
	}
	existing.UpdatedAt.SetValid(time.Now().UTC())

	cp, _ := repo.get(usr.ID)
	return cp, nil
}

func (repo *userRepository) SetUserRoles(_ context.Context, userID int, roleIDs []int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	membership := make(map[int]struct{}, len(roleIDs))
	for _, roleID := range roleIDs {
		membership[roleID] = struct{}{}
	}
	repo.db.userRoles[userID] = membership
	return nil
}

func (repo *userRepository) AssignRole(_ context.Context, userID, roleID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.userRoles[userID] == nil {
		repo.db.userRoles[userID] = make(map[int]struct{})
	}
	repo.db.userRoles[userID][roleID] = struct{}{}
	return nil
}

func (repo *userRepository) RemoveRole(_ context.Context, userID, roleID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.userRoles[userID], roleID)
	return nil
}

// Roles

func (repo *userRepository) CreateRole(_ context.Context, role user.Role) (user.Role, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.roles {
		if existing.Name == role.Name {
			return user.Role{}, core.Conflict("role already exists")
		}
	}
	role.ID = repo.db.nextID()
	repo.db.roles[role.ID] = &role
	return role, nil
}

func (repo *userRepository) QueryAllRoles(_ context.Context) ([]user.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var ids []int
	for id := range repo.db.roles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	roles := make([]user.Role, 0, len(ids))
	for _, id := range ids {
		roles = append(roles, *repo.db.roles[id])
	}
	return roles, nil
}

func (repo *userRepository) GetRoleByID(_ context.Context, id int) (user.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if role, ok := repo.db.roles[id]; ok {
		return *role, nil
	}
	return user.Role{}, core.NotFound("role not found")
}

func (repo *userRepository) GetRoleByName(_ context.Context, name string) (user.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, role := range repo.db.roles {
		if role.Name == name {
			return *role, nil
		}
	}
	return user.Role{}, core.NotFound("role not found")
}

func (repo *userRepository) GetRolesByID(_ context.Context, ids []int) ([]user.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var roles []user.Role
	for _, id := range ids {
		if role, ok := repo.db.roles[id]; ok {
			roles = append(roles, *role)
		}
	}
	return roles, nil
}

func (repo *userRepository) UpdateRole(_ context.Context, role user.Role) (user.Role, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, ok := repo.db.roles[role.ID]
	if !ok {
		return user.Role{}, core.NotFound("role not found")
	}
	for id, other := range repo.db.roles {
		if id != role.ID && other.Name == role.Name {
			return user.Role{}, core.Conflict("role already exists")
		}
	}
	existing.Name = role.Name
	existing.Description = role.Description
	return *existing, nil
}

func (repo *userRepository) DeleteRole(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.roles, id)
	for userID := range repo.db.userRoles {
		delete(repo.db.userRoles[userID], id)
	}
	return nil
}
