package query

import (
	"postapi/models"

	"github.com/huandu/go-sqlbuilder"
)

// Table is the single table the service reads and writes.
const Table = "post"

// KeyColumn identifies a post row.
const KeyColumn = "postId"

// Builder builds the parameterized statements for the post table in one
// SQL flavor. The returned args are always in placeholder order.
type Builder struct {
	flavor sqlbuilder.Flavor
}

func NewBuilder(flavor sqlbuilder.Flavor) Builder {
	return Builder{flavor: flavor}
}

// List selects one page of posts in insertion order.
func (b Builder) List(limit, offset int) (string, []interface{}) {
	sb := b.flavor.NewSelectBuilder()
	sb.Select(models.ColumnNames...).From(Table)
	sb.OrderBy(KeyColumn).Asc()
	sb.Limit(limit).Offset(offset)
	return sb.Build()
}

// ByID selects the post with the given id.
func (b Builder) ByID(id int64) (string, []interface{}) {
	sb := b.flavor.NewSelectBuilder()
	sb.Select(models.ColumnNames...).From(Table)
	sb.Where(sb.Equal(KeyColumn, id))
	return sb.Build()
}

// Insert builds an INSERT over the fields present on the post. postId is
// left to the database.
func (b Builder) Insert(post models.Post) (string, []interface{}, error) {
	cols, err := post.Columns(models.ColumnsPresent)
	if err != nil {
		return "", nil, err
	}

	ib := b.flavor.NewInsertBuilder()
	ib.InsertInto(Table).Cols(models.Names(cols)...).Values(models.Values(cols)...)
	sql, args := ib.Build()

	if b.flavor == sqlbuilder.PostgreSQL {
		sql += " RETURNING " + KeyColumn
	}
	return sql, args, nil
}

// Update builds an UPDATE keyed by postId. The assigned values come first
// in column order and postId is bound last.
func (b Builder) Update(post models.Post, mode models.ColumnMode) (string, []interface{}, error) {
	cols, err := post.Columns(mode)
	if err != nil {
		return "", nil, err
	}

	ub := b.flavor.NewUpdateBuilder()
	ub.Update(Table)
	assignments := make([]string, 0, len(cols))
	for _, col := range cols {
		assignments = append(assignments, ub.Assign(col.Name, col.Value))
	}
	ub.Set(assignments...)
	ub.Where(ub.Equal(KeyColumn, post.PostID))

	sql, args := ub.Build()
	return sql, args, nil
}

// Delete removes the post with the given id.
func (b Builder) Delete(id int64) (string, []interface{}) {
	db := b.flavor.NewDeleteBuilder()
	db.DeleteFrom(Table).Where(db.Equal(KeyColumn, id))
	return db.Build()
}
