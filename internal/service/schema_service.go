package service

import (
	"context"

	"shoppos/internal/dto"
	"shoppos/internal/repository"
)

type SchemaService interface {
	// Tables lists the columns of every public table, grouped by table name.
	Tables(ctx context.Context) ([]dto.TableInfo, error)
}

type schemaService struct {
	repo repository.SchemaRepository
}

func NewSchemaService(repo repository.SchemaRepository) SchemaService {
	return &schemaService{repo: repo}
}

func (s *schemaService) Tables(ctx context.Context) ([]dto.TableInfo, error) {
	rows, err := s.repo.Columns(ctx)
	if err != nil {
		return nil, err
	}
	tables := []dto.TableInfo{}
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.TableName]
		if !ok {
			i = len(tables)
			index[r.TableName] = i
			tables = append(tables, dto.TableInfo{Name: r.TableName})
		}
		tables[i].Columns = append(tables[i].Columns, dto.ColumnInfo{
			Name:     r.ColumnName,
			DataType: r.DataType,
			Nullable: r.IsNullable == "YES",
			Default:  r.ColumnDefault,
		})
	}
	return tables, nil
}
