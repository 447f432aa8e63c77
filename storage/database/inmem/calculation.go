package inmemdb

import (
	"context"
	"sort"

	"github.com/gradefinalboss/gradeboss/core"
	"github.com/gradefinalboss/gradeboss/core/calculation"
)

type calculationRepository struct {
	db *calculationTable
}

var _ calculation.Repository = (*calculationRepository)(nil) // interface compliance check

func NewCalculationRepository(db *DB) calculation.Repository {
	return &calculationRepository{db: db.calculation}
}

func (repo *calculationRepository) CreateRecord(_ context.Context, rec calculation.Record, _ ...core.DBExecutor) (calculation.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec.InputData = append(rec.InputData[:0:0], rec.InputData...)
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *calculationRepository) QueryRecords(_ context.Context, filter calculation.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]calculation.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]calculation.Record, 0)
	for _, rec := range repo.db.table {
		if filter.UserID != "" && rec.UserID != filter.UserID {
			continue
		}
		if filter.Kind != "" && rec.Kind != filter.Kind {
			continue
		}
		recs = append(recs, *rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		for _, ord := range ordering {
			cmp := compareRecords(recs[i], recs[j], ord.Field)
			if cmp == 0 {
				continue
			}
			if ord.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return recs[i].ID < recs[j].ID
	})
	return recs, nil
}

func compareRecords(a, b calculation.Record, field string) int {
	switch field {
	case "created_at":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
	case "calculated_value":
		switch {
		case a.CalculatedValue < b.CalculatedValue:
			return -1
		case a.CalculatedValue > b.CalculatedValue:
			return 1
		}
	case "kind":
		switch {
		case a.Kind < b.Kind:
			return -1
		case a.Kind > b.Kind:
			return 1
		}
	}
	return 0
}

func (repo *calculationRepository) GetRecord(_ context.Context, id string, _ ...core.DBExecutor) (calculation.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return calculation.Record{}, calculation.ErrNotFound
}

func (repo *calculationRepository) DeleteRecords(_ context.Context, userID string, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if rec, ok := repo.db.table[id]; ok && rec.UserID == userID {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}
