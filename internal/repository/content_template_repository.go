package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/getmyagent/marketing-api/internal/models"
)

type ContentTemplateRepository interface {
	Create(ctx context.Context, template *models.ContentTemplate) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ContentTemplate, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ContentTemplate, error)
}

type contentTemplateRepository struct {
	db *sql.DB
}

func NewContentTemplateRepository(db *sql.DB) ContentTemplateRepository {
	return &contentTemplateRepository{db: db}
}

func (r *contentTemplateRepository) Create(ctx context.Context, template *models.ContentTemplate) (int64, error) {
	query := `
		INSERT INTO content_templates (user_id, title, pillar_type, platform, language, prompt, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, template.UserID, template.Title, template.PillarType,
		template.Platform, template.Language, template.Prompt, template.Description).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *contentTemplateRepository) GetByID(ctx context.Context, id int64) (*models.ContentTemplate, error) {
	query := `
		SELECT id, user_id, title, pillar_type, platform, language, prompt, description, is_public, created_at, updated_at
		FROM content_templates WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var t models.ContentTemplate
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.PillarType, &t.Platform, &t.Language,
		&t.Prompt, &t.Description, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &t, nil
}

func (r *contentTemplateRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ContentTemplate, error) {
	query := `
		SELECT id, user_id, title, pillar_type, platform, language, prompt, description, is_public, created_at, updated_at
		FROM content_templates
		WHERE user_id = $1 OR is_public = TRUE
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var templates []*models.ContentTemplate
	for rows.Next() {
		var t models.ContentTemplate
		err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.PillarType, &t.Platform, &t.Language,
			&t.Prompt, &t.Description, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		templates = append(templates, &t)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return templates, nil
}
