package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gradefinalboss/gradeboss/core"
	"github.com/gradefinalboss/gradeboss/core/calculation"
)

const calculationColumns = "id, user_id, kind, input_data, calculated_value, created_at"

type calculationRepository struct {
	repository
}

var _ calculation.Repository = (*calculationRepository)(nil) // interface compliance check

func NewCalculationRepository(db *sqlx.DB) calculation.Repository {
	return &calculationRepository{repository{db: db}}
}

// calculationRow maps the calculations table. input_data is JSONB.
type calculationRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Kind            string    `db:"kind"`
	InputData       []byte    `db:"input_data"`
	CalculatedValue float64   `db:"calculated_value"`
	CreatedAt       time.Time `db:"created_at"`
}

func (repo calculationRepository) fromRow(row calculationRow) calculation.Record {
	return calculation.Record{
		ID:              row.ID,
		UserID:          row.UserID,
		Kind:            calculation.Kind(row.Kind),
		InputData:       json.RawMessage(row.InputData),
		CalculatedValue: row.CalculatedValue,
		CreatedAt:       row.CreatedAt.UTC(),
	}
}

func (repo calculationRepository) CreateRecord(ctx context.Context, rec calculation.Record, exec ...core.DBExecutor) (calculation.Record, error) {
	q := `INSERT INTO calculations (` + calculationColumns + `) VALUES ($1, $2, $3, $4::jsonb, $5, $6)`
	// JSONB is sent as text; lib/pq would encode []byte as bytea
	_, err := repo.getExec(exec).ExecContext(ctx, q,
		rec.ID, rec.UserID, string(rec.Kind), string(rec.InputData), rec.CalculatedValue, rec.CreatedAt.UTC())
	if err != nil {
		return calculation.Record{}, errors.Wrap(err, "inserting calculation")
	}
	return rec, nil
}

func (repo calculationRepository) QueryRecords(ctx context.Context, filter calculation.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]calculation.Record, error) {
	q := "SELECT " + calculationColumns + " FROM calculations WHERE true"
	var args []interface{}
	if filter.UserID != "" {
		q += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.Kind != "" {
		q += " AND kind = ?"
		args = append(args, string(filter.Kind))
	}
	q += orderBy(core.FilterOrderings(ordering, calculation.OrderingFields...))

	exe := repo.getExec(exec)
	var rows []calculationRow
	if err := sqlx.SelectContext(ctx, exe, &rows, exe.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying calculations")
	}

	recs := make([]calculation.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, repo.fromRow(row))
	}
	return recs, nil
}

func (repo calculationRepository) GetRecord(ctx context.Context, id string, exec ...core.DBExecutor) (calculation.Record, error) {
	var row calculationRow
	q := "SELECT " + calculationColumns + " FROM calculations WHERE id = $1"
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return calculation.Record{}, calculation.ErrNotFound
		}
		return calculation.Record{}, errors.Wrap(err, "finding calculation")
	}
	return repo.fromRow(row), nil
}

func (repo calculationRepository) DeleteRecords(ctx context.Context, userID string, ids []string, exec ...core.DBExecutor) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In("DELETE FROM calculations WHERE user_id = ? AND id IN (?)", userID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "building delete query")
	}
	exe := repo.getExec(exec)
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting calculations")
	}
	cnt, err := res.RowsAffected()
	return int(cnt), errors.Wrap(err, "counting deleted calculations")
}
