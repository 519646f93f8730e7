package inmemdb

import (
	"context"
	"sort"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/grade"
	"github.com/unidigital/academia/core/period"
	"github.com/unidigital/academia/core/subject"
)

// Subjects

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.subjects {
		if existing.Code == sub.Code {
			return subject.Subject{}, core.Conflict("subject code already exists")
		}
	}
	sub.ID = repo.db.nextID()
	repo.db.subjects[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) QueryAllSubjects(_ context.Context) ([]subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var ids []int
	for id := range repo.db.subjects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]subject.Subject, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, *repo.db.subjects[id])
	}
	return subs, nil
}

func (repo *subjectRepository) GetSubjectByID(_ context.Context, id int) (subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.subjects[id]; ok {
		return *sub, nil
	}
	return subject.Subject{}, core.NotFound("subject not found")
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[sub.ID]; !ok {
		return subject.Subject{}, core.NotFound("subject not found")
	}
	repo.db.subjects[sub.ID] = &sub
	return sub, nil
}

// Periods

type periodRepository struct {
	db *DB
}

var _ period.Repository = (*periodRepository)(nil)

func NewPeriodRepository(db *DB) *periodRepository {
	return &periodRepository{db: db}
}

func (repo *periodRepository) CreatePeriod(_ context.Context, per period.AcademicPeriod) (period.AcademicPeriod, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.periods {
		if existing.Code == per.Code {
			return period.AcademicPeriod{}, core.Conflict("period code already exists")
		}
	}
	per.ID = repo.db.nextID()
	repo.db.periods[per.ID] = &per
	return per, nil
}

func (repo *periodRepository) QueryAllPeriods(_ context.Context) ([]period.AcademicPeriod, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var ids []int
	for id := range repo.db.periods {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	pers := make([]period.AcademicPeriod, 0, len(ids))
	for _, id := range ids {
		pers = append(pers, *repo.db.periods[id])
	}
	return pers, nil
}

func (repo *periodRepository) GetPeriodByID(_ context.Context, id int) (period.AcademicPeriod, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if per, ok := repo.db.periods[id]; ok {
		return *per, nil
	}
	return period.AcademicPeriod{}, core.NotFound("period not found")
}

func (repo *periodRepository) UpdatePeriod(_ context.Context, per period.AcademicPeriod) (period.AcademicPeriod, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.periods[per.ID]; !ok {
		return period.AcademicPeriod{}, core.NotFound("period not found")
	}
	repo.db.periods[per.ID] = &per
	return per, nil
}

// Enrollments

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.enrollments {
		if existing.UserID == enr.UserID && existing.SubjectID == enr.SubjectID && existing.PeriodID == enr.PeriodID {
			return enrollment.Enrollment{}, core.Conflict("enrollment already exists")
		}
	}
	enr.ID = repo.db.nextID()
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) QueryEnrollments(_ context.Context, filter enrollment.Filter) ([]enrollment.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var ids []int
	for id := range repo.db.enrollments {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	enrs := make([]enrollment.Enrollment, 0, len(ids))
	for _, id := range ids {
		enr := *repo.db.enrollments[id]
		switch {
		case filter.UserID != 0:
			if enr.UserID != filter.UserID {
				continue
			}
		case filter.TeacherID != 0:
			if !enr.TeacherID.Valid || enr.TeacherID.Int != filter.TeacherID {
				continue
			}
		}
		enrs = append(enrs, enr)
	}
	return enrs, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(_ context.Context, id int) (enrollment.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if enr, ok := repo.db.enrollments[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, core.NotFound("enrollment not found")
}

func (repo *enrollmentRepository) UpdateEnrollment(_ context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.enrollments[enr.ID]; !ok {
		return enrollment.Enrollment{}, core.NotFound("enrollment not found")
	}
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

// Grades

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(_ context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	grd.ID = repo.db.nextID()
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *gradeRepository) QueryGrades(_ context.Context, filter enrollment.Filter) ([]grade.GradeInfo, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var ids []int
	for id := range repo.db.grades {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	infos := make([]grade.GradeInfo, 0, len(ids))
	for _, id := range ids {
		grd := repo.db.grades[id]
		enr, ok := repo.db.enrollments[grd.EnrollmentID]
		if !ok {
			continue
		}
		switch {
		case filter.UserID != 0:
			if enr.UserID != filter.UserID {
				continue
			}
		case filter.TeacherID != 0:
			if !enr.TeacherID.Valid || enr.TeacherID.Int != filter.TeacherID {
				continue
			}
		}
		info := grade.GradeInfo{
			ID:           grd.ID,
			EnrollmentID: grd.EnrollmentID,
			Note:         grd.Note,
			CreatedAt:    grd.CreatedAt,
		}
		info.Value.SetValid(grd.Value)
		if student, ok := repo.db.users[enr.UserID]; ok {
			info.StudentName = student.FullName
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (repo *gradeRepository) GetGradeByID(_ context.Context, id int) (grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if grd, ok := repo.db.grades[id]; ok {
		return *grd, nil
	}
	return grade.Grade{}, core.NotFound("grade not found")
}

func (repo *gradeRepository) UpdateGrade(_ context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.grades[grd.ID]; !ok {
		return grade.Grade{}, core.NotFound("grade not found")
	}
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *gradeRepository) DeleteGrade(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.grades, id)
	return nil
}
