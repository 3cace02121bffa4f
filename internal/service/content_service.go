package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/getmyagent/marketing-api/internal/models"
	"github.com/getmyagent/marketing-api/internal/repository"
	"github.com/getmyagent/marketing-api/internal/transfer"
)

const systemPrompt = "You are a social media content expert for the Indian market. Create engaging, viral-worthy content that resonates with Indian business owners. Use cultural references, humor, and local language preferences. Always include relevant hashtags and emojis."

const defaultHashtags = "#GetMyAgent #AI #IndianBusiness"

var hashtagPattern = regexp.MustCompile(`#\w+`)

// TextGenerator is the opaque generation backend; *llm.Client satisfies it.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type ContentService interface {
	GeneratePost(ctx context.Context, userID int64, req *transfer.GeneratePostRequest) (*transfer.GeneratedPost, error)
	SavePost(ctx context.Context, userID int64, req *transfer.SavePostRequest) (int64, error)
	ListPosts(ctx context.Context, userID int64, status string) ([]*models.ContentPost, error)
	SchedulePost(ctx context.Context, userID int64, req *transfer.SchedulePostRequest) (time.Duration, error)
	CancelSchedule(ctx context.Context, userID, postID int64) error
	SaveTemplate(ctx context.Context, userID int64, req *transfer.SaveTemplateRequest) (int64, error)
	ListTemplates(ctx context.Context, userID int64) ([]*models.ContentTemplate, error)
}

type contentService struct {
	gen TextGenerator
	cp  repository.ContentPostRepository
	ct  repository.ContentTemplateRepository
	ma  repository.MetaAccountRepository
}

func NewContentService(
	gen TextGenerator,
	cp repository.ContentPostRepository,
	ct repository.ContentTemplateRepository,
	ma repository.MetaAccountRepository) ContentService {
	return &contentService{
		gen: gen,
		cp:  cp,
		ct:  ct,
		ma:  ma,
	}
}

func pillarPrompt(pillarType, language string) string {
	switch pillarType {
	case "desi_business_owner":
		return "Create a viral Instagram Reel script for Indian business owners. Use Hinglish and humor to show the struggle of manual customer service vs AI. Include a hook like 'When a customer pings at 2:00 AM'. Make it relatable and funny. Keep it under 150 words."
	case "five_minute_transformation":
		return fmt.Sprintf("Create a fast-paced 5-minute transformation script for setting up an AI consultant. Show the entire onboarding process in real-time. Use language: %s. Include a visible timer concept. Keep it engaging and under 150 words.", language)
	case "roi_calculator":
		return "Create a carousel post or video script about ROI and cost savings. Compare hiring a full-time employee (₹15,000-30,000/month) vs AI agent (₹2,000/month). Use 'Paisa Vasool' concept. Keep it under 150 words."
	default:
		return ""
	}
}

func (s *contentService) GeneratePost(ctx context.Context, userID int64, req *transfer.GeneratePostRequest) (*transfer.GeneratedPost, error) {
	if userID == 0 {
		err := errors.New("user id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = "hinglish"
	}

	// Prompt precedence: caller's own prompt, then a saved template,
	// then the built-in pillar prompts.
	userPrompt := req.CustomPrompt
	if userPrompt == "" && req.TemplateID != 0 {
		template, err := s.templateFor(ctx, userID, req.TemplateID)
		if err != nil {
			return nil, err
		}
		userPrompt = template.Prompt
	}
	if userPrompt == "" {
		userPrompt = pillarPrompt(req.PillarType, language)
	}
	if userPrompt == "" {
		err := fmt.Errorf("unknown pillar type: %s", req.PillarType)
		slog.Info(err.Error())
		return nil, err
	}

	content, err := s.gen.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	hashtags := defaultHashtags
	if matches := hashtagPattern.FindAllString(content, -1); len(matches) > 0 {
		hashtags = strings.Join(matches, " ")
	}

	return &transfer.GeneratedPost{
		Content:    content,
		Hashtags:   hashtags,
		Platform:   req.Platform,
		Language:   language,
		PillarType: req.PillarType,
	}, nil
}

// templateFor resolves a template the caller may generate from: their
// own, or a public one.
func (s *contentService) templateFor(ctx context.Context, userID, templateID int64) (*models.ContentTemplate, error) {
	template, err := s.ct.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil || (template.UserID != userID && !template.IsPublic) {
		return nil, ErrNotFound
	}
	return template, nil
}

func (s *contentService) SavePost(ctx context.Context, userID int64, req *transfer.SavePostRequest) (int64, error) {
	status := req.Status
	if status == "" {
		status = models.PostStatusDraft
	}

	post := models.ContentPost{
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Platform:    req.Platform,
		Language:    req.Language,
		Status:      status,
		ScheduledAt: req.ScheduledAt,
		Hashtags:    req.Hashtags,
		MediaURL:    req.MediaURL,
	}

	id, err := s.cp.Create(ctx, nil, &post)
	if err != nil {
		return 0, fmt.Errorf("error saving post: %w", err)
	}

	return id, nil
}

func (s *contentService) ListPosts(ctx context.Context, userID int64, status string) ([]*models.ContentPost, error) {
	if userID == 0 {
		err := errors.New("user id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	return s.cp.ListByUserID(ctx, userID, status)
}

// SchedulePost flips a post to scheduled and returns the enqueue delay.
// Both the post and the target account must belong to the caller.
func (s *contentService) SchedulePost(ctx context.Context, userID int64, req *transfer.SchedulePostRequest) (time.Duration, error) {
	owns, err := s.cp.CheckByUserID(ctx, req.PostID, userID)
	if err != nil {
		return 0, err
	}
	if !owns {
		return 0, ErrNotFound
	}

	account, err := s.ma.GetByAccountID(ctx, userID, req.AccountID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, ErrNotFound
	}

	if err := s.cp.SetScheduled(ctx, req.PostID, req.ScheduledAt); err != nil {
		return 0, err
	}

	delay := time.Until(req.ScheduledAt)
	if delay < 0 {
		delay = 0
	}

	return delay, nil
}

// CancelSchedule puts a scheduled post back in draft. Used when the
// publish task cannot be enqueued, so a post is never left scheduled
// with no task that will fire.
func (s *contentService) CancelSchedule(ctx context.Context, userID, postID int64) error {
	owns, err := s.cp.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !owns {
		return ErrNotFound
	}

	return s.cp.UpdateStatus(ctx, models.PostStatusDraft, postID)
}

func (s *contentService) SaveTemplate(ctx context.Context, userID int64, req *transfer.SaveTemplateRequest) (int64, error) {
	template := models.ContentTemplate{
		UserID:      userID,
		Title:       req.Title,
		PillarType:  req.PillarType,
		Platform:    req.Platform,
		Language:    req.Language,
		Prompt:      req.Prompt,
		Description: req.Description,
	}

	id, err := s.ct.Create(ctx, &template)
	if err != nil {
		return 0, fmt.Errorf("error saving template: %w", err)
	}

	return id, nil
}

func (s *contentService) ListTemplates(ctx context.Context, userID int64) ([]*models.ContentTemplate, error) {
	return s.ct.ListByUserID(ctx, userID)
}
