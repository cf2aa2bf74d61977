package database

import (
	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// StatementBuilder returns a squirrel builder using the placeholder style of db's dialect.
func StatementBuilder(db *gorm.DB) sq.StatementBuilderType {
	if db.Dialector.Name() == "postgres" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}
