// Package dummydb provides in-memory repositories for DEV and TEST.
package dummydb

import (
	"sync"

	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/student"
)

type (
	DB struct {
		student    *studentTable
		course     *courseTable
		enrollment *enrollmentTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*course.Enrollment
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:    &studentTable{table: make(map[string]*student.Student)},
		course:     &courseTable{table: make(map[string]*course.Course)},
		enrollment: &enrollmentTable{table: make(map[string]*course.Enrollment)},
	}
	return db, nil
}
