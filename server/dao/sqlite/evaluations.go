package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/physunits/server/dao"
	"github.com/google/uuid"
)

// EvaluationsDB is the SQLite-backed dao.EvaluationRepository.
type EvaluationsDB struct {
	db *sql.DB
}

func (repo *EvaluationsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT NOT NULL PRIMARY KEY,
		expression TEXT NOT NULL,
		result TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *EvaluationsDB) Create(ctx context.Context, e dao.Evaluation) (dao.Evaluation, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Evaluation{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO evaluations (id, expression, result, created) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return dao.Evaluation{}, wrapDBError(err)
	}
	now := time.Now()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		e.Expression,
		convertToDB_ByteSlice(e.Result),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.Evaluation{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *EvaluationsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Evaluation, error) {
	e := dao.Evaluation{ID: id}
	var result string
	var created int64

	row := repo.db.QueryRowContext(ctx, `SELECT expression, result, created FROM evaluations WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	if err := row.Scan(&e.Expression, &result, &created); err != nil {
		return e, wrapDBError(err)
	}

	if err := convertFromDB_ByteSlice(result, &e.Result); err != nil {
		return e, fmt.Errorf("stored result is invalid: %w", err)
	}
	if err := convertFromDB_Time(created, &e.Created); err != nil {
		return e, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return e, nil
}

func (repo *EvaluationsDB) GetAll(ctx context.Context, notBefore, notAfter *time.Time) ([]dao.Evaluation, error) {
	query := `SELECT id, expression, result, created FROM evaluations WHERE 1=1`
	var args []any

	if notBefore != nil {
		query += ` AND created >= ?`
		args = append(args, convertToDB_Time(*notBefore))
	}
	if notAfter != nil {
		query += ` AND created <= ?`
		args = append(args, convertToDB_Time(*notAfter))
	}
	query += ` ORDER BY created DESC;`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Evaluation

	for rows.Next() {
		var e dao.Evaluation
		var id string
		var result string
		var created int64

		if err := rows.Scan(&id, &e.Expression, &result, &created); err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &e.ID); err != nil {
			return all, fmt.Errorf("stored ID %q is invalid: %w", id, err)
		}
		if err := convertFromDB_ByteSlice(result, &e.Result); err != nil {
			return all, fmt.Errorf("stored result is invalid: %w", err)
		}
		if err := convertFromDB_Time(created, &e.Created); err != nil {
			return all, fmt.Errorf("stored created time %d is invalid: %w", created, err)
		}

		all = append(all, e)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *EvaluationsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Evaluation, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM evaluations WHERE id = ?`,
		convertToDB_UUID(id),
	)
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *EvaluationsDB) Close() error {
	return repo.db.Close()
}
