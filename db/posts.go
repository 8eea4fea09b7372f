package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"postapi/config"
	"postapi/models"
	"postapi/query"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Posts handles all post table operations over a shared connection pool
type Posts struct {
	db      *sql.DB
	driver  string
	queries query.Builder
	perPage int
	timeout time.Duration
}

// NewPosts wraps an open pool. perPage is the listing page size and
// timeout bounds every statement; zero disables the bound.
func NewPosts(db *sql.DB, driver string, perPage int, timeout time.Duration) *Posts {
	flavor := sqlbuilder.SQLite
	if driver == config.DriverPostgres {
		flavor = sqlbuilder.PostgreSQL
	}

	return &Posts{
		db:      db,
		driver:  driver,
		queries: query.NewBuilder(flavor),
		perPage: perPage,
		timeout: timeout,
	}
}

func (p *Posts) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// Read operations

// List returns one page of posts. The page is echoed back in meta.
func (p *Posts) List(ctx context.Context, page int) (*models.Envelope, error) {
	if page < 1 {
		page = 1
	}
	sql, args := p.queries.List(p.perPage, Offset(page, p.perPage))

	posts, err := p.query(ctx, sql, args)
	if err != nil {
		return nil, err
	}

	return &models.Envelope{
		Data: EmptyOrRows(posts),
		Meta: models.Meta{Page: page},
	}, nil
}

// GetByID returns the post in a one element slice, or an empty slice when
// no such post exists.
func (p *Posts) GetByID(ctx context.Context, postId int64) (*models.Envelope, error) {
	sql, args := p.queries.ByID(postId)

	posts, err := p.query(ctx, sql, args)
	if err != nil {
		return nil, err
	}

	return &models.Envelope{Data: EmptyOrRows(posts)}, nil
}

func (p *Posts) query(ctx context.Context, sql string, args []interface{}) ([]models.Post, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Debug("Generated SQL query")

	rows, err := p.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return posts, nil
}

func scanPost(rows *sql.Rows) (models.Post, error) {
	var (
		post                          models.Post
		author, title, content, image sql.NullString
		published                     sql.NullBool
	)
	if err := rows.Scan(&post.PostID, &author, &title, &content, &image, &published); err != nil {
		return models.Post{}, err
	}

	post.Author = nullString(author)
	post.Title = nullString(title)
	post.Content = nullString(content)
	post.Image = nullString(image)
	if published.Valid {
		post.Published = lo.ToPtr(published.Bool)
	}
	return post, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return lo.ToPtr(s.String)
}

// Write operations

// Create inserts the post and stores the generated key on it.
func (p *Posts) Create(ctx context.Context, post models.Post) (*models.Envelope, error) {
	sql, args, err := p.queries.Insert(post)
	if err != nil {
		return nil, err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Debug("Generated SQL query")

	var id int64
	if p.driver == config.DriverPostgres {
		// lib/pq does not implement LastInsertId
		if err := p.db.QueryRowContext(ctx, sql, args...).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert error: %w", err)
		}
	} else {
		res, err := p.db.ExecContext(ctx, sql, args...)
		if err != nil {
			return nil, fmt.Errorf("insert error: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("insert id error: %w", err)
		}
	}

	post.PostID = id
	log.WithFields(log.Fields{
		"postId": id,
	}).Info("Created post")

	return &models.Envelope{
		Data: []models.Post{post},
		Meta: models.Meta{InsertID: id},
	}, nil
}

// Update assigns the post's columns, chosen by mode, to the row with the
// same postId.
func (p *Posts) Update(ctx context.Context, post models.Post, mode models.ColumnMode) (*models.Envelope, error) {
	sql, args, err := p.queries.Update(post, mode)
	if err != nil {
		return nil, err
	}

	affected, err := p.exec(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("update error: %w", err)
	}

	log.WithFields(log.Fields{
		"postId":   post.PostID,
		"affected": affected,
	}).Info("Updated post")

	return &models.Envelope{
		Data: EmptyOrRows[models.Post](nil),
		Meta: models.Meta{AffectedRows: &affected},
	}, nil
}

// Delete removes the post. A missing post is not an error.
func (p *Posts) Delete(ctx context.Context, postId int64) (*models.Envelope, error) {
	sql, args := p.queries.Delete(postId)

	affected, err := p.exec(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("delete error: %w", err)
	}

	log.WithFields(log.Fields{
		"postId":   postId,
		"affected": affected,
	}).Info("Deleted post")

	return &models.Envelope{
		Data: EmptyOrRows[models.Post](nil),
		Meta: models.Meta{AffectedRows: &affected},
	}, nil
}

func (p *Posts) exec(ctx context.Context, sql string, args []interface{}) (int64, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Debug("Generated SQL query")

	res, err := p.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
