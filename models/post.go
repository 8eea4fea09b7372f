package models

import (
	"errors"

	"github.com/samber/lo"
)

// ErrNoFields is returned when a post carries nothing besides its postId,
// so there is no column to insert or assign.
var ErrNoFields = errors.New("post has no fields besides postId")

// Post model with the columns of the post table. Optional columns are
// pointers so that NULL and absent fields are omitted from responses.
type Post struct {
	PostID    int64   `json:"postId"`
	Author    *string `json:"author,omitempty"`
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Image     *string `json:"image,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// Payload is a post as sent by a client, either as JSON or as a form.
// Every field is optional and any key not listed here is dropped.
type Payload struct {
	PostID    *int64  `json:"postId" form:"postId"`
	Author    *string `json:"author" form:"author"`
	Title     *string `json:"title" form:"title"`
	Content   *string `json:"content" form:"content"`
	Image     *string `json:"image" form:"image"`
	Published *bool   `json:"published" form:"published"`
}

// NewPost copies the recognized fields of a payload into a post. Nothing
// is validated here; the database rejects what it cannot store.
func NewPost(p Payload) Post {
	post := Post{
		Author:    p.Author,
		Title:     p.Title,
		Content:   p.Content,
		Image:     p.Image,
		Published: p.Published,
	}
	if p.PostID != nil {
		post.PostID = *p.PostID
	}
	return post
}

// Column is a single assignable column and the value bound to it.
type Column struct {
	Name  string
	Value interface{}
}

// ColumnMode selects which columns Post.Columns returns.
type ColumnMode int

const (
	// ColumnsPresent returns only the fields that are set.
	ColumnsPresent ColumnMode = iota
	// ColumnsAll returns every mutable field, unset ones as NULL.
	ColumnsAll
)

// ColumnNames lists the post table columns in select order.
var ColumnNames = []string{"postId", "author", "title", "content", "image", "published"}

// Columns returns the mutable columns of the post in table order. postId
// is never part of the result.
func (p Post) Columns(mode ColumnMode) ([]Column, error) {
	all := []field{
		{"author", p.Author != nil, value(p.Author)},
		{"title", p.Title != nil, value(p.Title)},
		{"content", p.Content != nil, value(p.Content)},
		{"image", p.Image != nil, value(p.Image)},
		{"published", p.Published != nil, value(p.Published)},
	}

	set := lo.CountBy(all, func(f field) bool { return f.set })
	if set == 0 {
		return nil, ErrNoFields
	}

	cols := make([]Column, 0, len(all))
	for _, f := range all {
		if !f.set && mode == ColumnsPresent {
			continue
		}
		cols = append(cols, Column{Name: f.name, Value: f.value})
	}

	return cols, nil
}

type field struct {
	name  string
	set   bool
	value interface{}
}

// value unwraps an optional field so drivers receive a plain value or nil.
func value[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// Names returns the column names in order.
func Names(cols []Column) []string {
	return lo.Map(cols, func(c Column, _ int) string { return c.Name })
}

// Values returns the bound values in the same order as Names.
func Values(cols []Column) []interface{} {
	return lo.Map(cols, func(c Column, _ int) interface{} { return c.Value })
}

// Meta is the meta half of a response envelope.
type Meta struct {
	Page         int    `json:"page,omitempty"`
	InsertID     int64  `json:"insertId,omitempty"`
	AffectedRows *int64 `json:"affectedRows,omitempty"`
}

// Envelope wraps every successful response.
type Envelope struct {
	Data []Post `json:"data"`
	Meta Meta   `json:"meta"`
}
