package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/getmyagent/marketing-api/internal/models"
	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	// A failed publish is never retried, so the same post cannot end up
	// on the provider twice. The post goes back to draft so the failure
	// is visible and the user can reschedule.
	if err := q.publishScheduled(ctx, payload); err != nil {
		log.Printf("Error publishing scheduled post %d: %v", payload.PostID, err)
		if err := q.cp.UpdateStatus(ctx, models.PostStatusDraft, payload.PostID); err != nil {
			log.Printf("Error reverting post %d to draft: %v", payload.PostID, err)
		}
	}

	return nil
}

func (q *Queue) publishScheduled(ctx context.Context, payload PublishPostPayload) error {
	post, err := q.cp.GetByID(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New("post not found")
	}
	if post.Status != models.PostStatusScheduled {
		log.Printf("Post %d is %s, skipping scheduled publish", post.ID, post.Status)
		return nil
	}

	account, err := q.ma.GetByAccountID(ctx, payload.UserID, payload.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return errors.New("meta account not found")
	}

	caption := post.Content
	if post.Hashtags != "" {
		caption = strings.TrimSpace(caption) + "\n\n" + post.Hashtags
	}

	switch account.AccountType {
	case models.AccountTypeInstagramBusiness:
		_, err = q.pub.PublishToInstagram(ctx, payload.UserID, payload.AccountID, post.ID, caption, post.MediaURL)
	case models.AccountTypeFacebookPage:
		_, err = q.pub.PublishToFacebook(ctx, payload.UserID, payload.AccountID, post.ID, caption, post.MediaURL)
	default:
		err = errors.New("unsupported account type: " + account.AccountType)
	}

	return err
}
