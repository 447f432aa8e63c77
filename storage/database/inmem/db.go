package inmemdb

import (
	"sync"

	"github.com/gradefinalboss/gradeboss/core/calculation"
	"github.com/gradefinalboss/gradeboss/core/user"
)

type (
	DB struct {
		user        *userTable
		calculation *calculationTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	calculationTable struct {
		sync.RWMutex
		table map[string]*calculation.Record
	}
)

func Open() *DB {
	return &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		calculation: &calculationTable{table: make(map[string]*calculation.Record)},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.calculation.Lock()
	db.calculation.table = make(map[string]*calculation.Record)
	db.calculation.Unlock()
}
