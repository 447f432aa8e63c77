package sqlxrepos

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gradefinalboss/gradeboss/core"
)

const uniqueViolation = "23505"

// repository holds what the sqlx repositories share.
type repository struct {
	db *sqlx.DB
}

// getExec returns the caller's executor (eg. a *sqlx.Tx) or the repository DB.
func (repo repository) getExec(svcExec []core.DBExecutor) sqlx.ExtContext {
	if len(svcExec) > 0 {
		if exec, ok := svcExec[0].(sqlx.ExtContext); ok {
			return exec
		}
	}
	return repo.db
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}
