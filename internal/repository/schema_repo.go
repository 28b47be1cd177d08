package repository

import (
	"context"

	"gorm.io/gorm"
)

// ColumnRow is one row of information_schema.columns.
type ColumnRow struct {
	TableName     string
	ColumnName    string
	DataType      string
	IsNullable    string
	ColumnDefault *string
}

type SchemaRepository interface {
	Columns(ctx context.Context) ([]ColumnRow, error)
}

type schemaRepo struct{ db *gorm.DB }

func NewSchemaRepository(db *gorm.DB) SchemaRepository { return &schemaRepo{db: db} }

func (r *schemaRepo) Columns(ctx context.Context) ([]ColumnRow, error) {
	var rows []ColumnRow
	err := r.db.WithContext(ctx).Raw(`
SELECT table_name, column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema = 'public'
ORDER BY table_name, ordinal_position`).Scan(&rows).Error
	return rows, err
}
