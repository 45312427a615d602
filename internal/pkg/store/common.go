package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/veiligstallen/reports/internal/pkg/constants"
)

const (
	tableBezettingsdata = "bezettingsdata"
	tableTransacties    = "transacties"

	tableTransactiesCache   = "transacties_cache"
	tableBezettingCache     = "bezettingsdata_cache"
	tableStallingsduurCache = "stallingsduur_cache"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel statement builder with Postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
