package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
)

// Base carries the GORM handle shared by the marketplace repositories. It is
// held by value so a repository rebased onto a transaction does not alias the
// original connection.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds the connection to the request context so query cancellation
// follows the caller.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Page applies normalized limit/offset to a list query.
func Page(query *gorm.DB, params pagination.Params) *gorm.DB {
	params = params.Normalize()
	return query.Limit(params.Limit).Offset(params.Offset)
}
