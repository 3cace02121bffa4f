package queue

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getmyagent/marketing-api/internal/repository"
	"github.com/getmyagent/marketing-api/internal/service"
	"github.com/hibiken/asynq"
)

const TaskTypePublishPost = "meta:publish_post"

type PublishPostPayload struct {
	PostID    int64  `json:"post_id"`
	UserID    int64  `json:"user_id"`
	AccountID string `json:"account_id"`
}

type Queue struct {
	cp  repository.ContentPostRepository
	ma  repository.MetaAccountRepository
	pub service.PublishService
}

func NewQueue(
	cp repository.ContentPostRepository,
	ma repository.MetaAccountRepository,
	pub service.PublishService) *Queue {
	return &Queue{
		cp:  cp,
		ma:  ma,
		pub: pub,
	}
}

func EnqueuePost(asynqClient *asynq.Client, payload PublishPostPayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	if _, err := asynqClient.Enqueue(task, asynq.ProcessIn(delay)); err != nil {
		return err
	}

	log.Printf("Task scheduled: %+v", payload)
	return nil
}
