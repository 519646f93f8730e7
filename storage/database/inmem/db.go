// Package inmemdb provides map-backed repositories used by tests; they
// honor the same error contracts as the PostgreSQL implementations.
package inmemdb

import (
	"sync"

	"github.com/unidigital/academia/core/auth"
	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/grade"
	"github.com/unidigital/academia/core/period"
	"github.com/unidigital/academia/core/subject"
	"github.com/unidigital/academia/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users       map[int]*user.User
	roles       map[int]*user.Role
	userRoles   map[int]map[int]struct{} // userID -> roleIDs
	revoked     map[string]*auth.RevokedToken
	subjects    map[int]*subject.Subject
	periods     map[int]*period.AcademicPeriod
	enrollments map[int]*enrollment.Enrollment
	grades      map[int]*grade.Grade

	seq int
}

func NewDB() *DB {
	return &DB{
		users:       make(map[int]*user.User),
		roles:       make(map[int]*user.Role),
		userRoles:   make(map[int]map[int]struct{}),
		revoked:     make(map[string]*auth.RevokedToken),
		subjects:    make(map[int]*subject.Subject),
		periods:     make(map[int]*period.AcademicPeriod),
		enrollments: make(map[int]*enrollment.Enrollment),
		grades:      make(map[int]*grade.Grade),
	}
}

// nextID must be called with the write lock held.
func (db *DB) nextID() int {
	db.seq++
	return db.seq
}
