package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/getmyagent/marketing-api/internal/models"
)

type ContentPostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.ContentPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ContentPost, error)
	ListByUserID(ctx context.Context, userID int64, status string) ([]*models.ContentPost, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) error
	SetScheduled(ctx context.Context, postID int64, scheduledAt time.Time) error
	UpdateStatus(ctx context.Context, status string, postID int64) error
}

type contentPostRepository struct {
	db *sql.DB
}

func NewContentPostRepository(db *sql.DB) ContentPostRepository {
	return &contentPostRepository{db: db}
}

const contentPostColumns = `id, user_id, template_id, title, content, platform, language, status, scheduled_at, published_at, hashtags, media_url, engagement, created_at, updated_at`

func scanContentPost(row interface{ Scan(...interface{}) error }) (*models.ContentPost, error) {
	var post models.ContentPost
	err := row.Scan(&post.ID, &post.UserID, &post.TemplateID, &post.Title, &post.Content,
		&post.Platform, &post.Language, &post.Status, &post.ScheduledAt, &post.PublishedAt,
		&post.Hashtags, &post.MediaURL, &post.Engagement, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *contentPostRepository) Create(ctx context.Context, tx *sql.Tx, post *models.ContentPost) (int64, error) {
	query := `
		INSERT INTO content_posts (user_id, template_id, title, content, platform, language, status, scheduled_at, hashtags, media_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var err error
	var id int64

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, post.UserID, post.TemplateID, post.Title, post.Content,
			post.Platform, post.Language, post.Status, post.ScheduledAt, post.Hashtags, post.MediaURL).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, post.UserID, post.TemplateID, post.Title, post.Content,
			post.Platform, post.Language, post.Status, post.ScheduledAt, post.Hashtags, post.MediaURL).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *contentPostRepository) GetByID(ctx context.Context, id int64) (*models.ContentPost, error) {
	query := `SELECT ` + contentPostColumns + ` FROM content_posts WHERE id = $1`

	post, err := scanContentPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *contentPostRepository) ListByUserID(ctx context.Context, userID int64, status string) ([]*models.ContentPost, error) {
	query := `SELECT ` + contentPostColumns + ` FROM content_posts WHERE user_id = $1`
	args := []interface{}{userID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ContentPost
	for rows.Next() {
		post, err := scanContentPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}

func (r *contentPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM content_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *contentPostRepository) MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) error {
	query := `
		UPDATE content_posts
		SET status = $1,
			published_at = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPublished, publishedAt, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *contentPostRepository) SetScheduled(ctx context.Context, postID int64, scheduledAt time.Time) error {
	query := `
		UPDATE content_posts
		SET status = $1,
			scheduled_at = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusScheduled, scheduledAt, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *contentPostRepository) UpdateStatus(ctx context.Context, status string, postID int64) error {
	query := `
		UPDATE content_posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
