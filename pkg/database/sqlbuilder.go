package database

import (
	"github.com/huandu/go-sqlbuilder"
)

type InsertBuilder struct {
	*sqlbuilder.InsertBuilder
}

func NewInsertBuilder() *InsertBuilder {
	return &InsertBuilder{sqlbuilder.PostgreSQL.NewInsertBuilder()}
}

func (ib *InsertBuilder) InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{ib.InsertBuilder.InsertInto(table)}
}

func (ib *InsertBuilder) Cols(col ...string) *InsertBuilder {
	return &InsertBuilder{ib.InsertBuilder.Cols(col...)}
}

func (ib *InsertBuilder) Values(value ...any) *InsertBuilder {
	return &InsertBuilder{ib.InsertBuilder.Values(value...)}
}

func (ib *InsertBuilder) Returning(col ...string) *InsertBuilder {
	return &InsertBuilder{ib.InsertBuilder.Returning(col...)}
}

type UpdateBuilder struct {
	*sqlbuilder.UpdateBuilder
}

func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{sqlbuilder.PostgreSQL.NewUpdateBuilder()}
}

type DeleteBuilder struct {
	*sqlbuilder.DeleteBuilder
}

func NewDeleteBuilder() *DeleteBuilder {
	return &DeleteBuilder{sqlbuilder.PostgreSQL.NewDeleteBuilder()}
}

type SelectBuilder struct {
	*sqlbuilder.SelectBuilder
}

func NewSelectBuilder() *SelectBuilder {
	return &SelectBuilder{sqlbuilder.PostgreSQL.NewSelectBuilder()}
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
func (sb *SelectBuilder) ForUpdate() *SelectBuilder {
	return &SelectBuilder{sb.SelectBuilder.ForUpdate()}
}

type Struct struct {
	*sqlbuilder.Struct
}

func NewStruct(v any) *Struct {
	return &Struct{sqlbuilder.NewStruct(v).For(sqlbuilder.PostgreSQL)}
}

func (s *Struct) SelectFrom(table string) *SelectBuilder {
	return &SelectBuilder{s.Struct.SelectFrom(table)}
}

func (s *Struct) InsertInto(table string, v ...any) *InsertBuilder {
	return &InsertBuilder{s.Struct.InsertInto(table, v...)}
}
