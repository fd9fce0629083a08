package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"wasata/internal/common"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// mapError translates driver errors into common errors. Unique violations
// become conflicts carrying conflictMsg, missing rows become not found.
func mapError(err error, notFoundMsg, conflictMsg, internalMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.NewError(common.CodeNotFound, notFoundMsg, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.NewError(common.CodeInternal, "request timed out", err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if conflictMsg == "" {
				conflictMsg = "already exists"
			}
			return common.NewError(common.CodeConflict, conflictMsg, err)
		case pgerrcode.ForeignKeyViolation:
			return common.NewError(common.CodeValidation, "referenced record does not exist", err)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return common.NewError(common.CodeValidation, "invalid data", err)
		case pgerrcode.NumericValueOutOfRange:
			return common.NewError(common.CodeValidation, "numeric value out of range", err)
		}
	}
	return common.NewError(common.CodeInternal, internalMsg, err)
}

func expectAffected(result sql.Result, notFoundMsg string) error {
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, notFoundMsg, sql.ErrNoRows)
	}
	return nil
}

// expectTransition resolves a status UPDATE guarded by the expected current
// status. No affected row means the record is gone or its status already moved.
func expectTransition(ctx context.Context, db *sql.DB, result sql.Result, table string, id common.UUID, notFoundMsg, conflictMsg string) error {
	rows, err := result.RowsAffected()
	if err != nil || rows > 0 {
		return nil
	}
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapError(err, notFoundMsg, "", "failed to check "+table)
	}
	if !exists {
		return common.NewError(common.CodeNotFound, notFoundMsg, sql.ErrNoRows)
	}
	return common.NewError(common.CodeConflict, conflictMsg, nil)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally anywhere in
// the column. Callers add ESCAPE '\' to the predicate.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func nullUUID(value sql.NullString) *common.UUID {
	if !value.Valid || value.String == "" {
		return nil
	}
	id := common.UUID(value.String)
	return &id
}

func nullTime(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}
