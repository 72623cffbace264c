package database

import (
	"encoding/json"
	"errors"

	"monster-clicker/shared/interfaces"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// querierOr возвращает транзакцию, если она передана, иначе пул.
func querierOr(pool *pgxpool.Pool, querier interfaces.DBTX) interfaces.DBTX {
	if querier != nil {
		return querier
	}
	return pool
}

// isUniqueViolation проверяет нарушение уникальности; пустой constraint - любое.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// marshalNullableJSON возвращает nil (NULL) для пустых значений.
func marshalNullableJSON(v any, empty bool) ([]byte, error) {
	if empty {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalIfPresent пропускает NULL и пустые jsonb.
func unmarshalIfPresent(data []byte, dst any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, dst)
}
