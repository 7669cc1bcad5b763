package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"comment-board-service/internal/entity"
	"comment-board-service/internal/repository"
)

const commentListKey = "comments:all"

type CommentService struct {
	commentRepo repository.CommentRepository
	rdb         *redis.Client
	kafkaWriter *kafka.Writer
}

// NewCommentService creates a new instance of CommentService.
func NewCommentService(commentRepo repository.CommentRepository, rdb *redis.Client, kafkaWriter *kafka.Writer) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		rdb:         rdb,
		kafkaWriter: kafkaWriter,
	}
}

// ListComments retrieves all comments, serving from the Redis cache when it is
// warm. Cache failures degrade to the database, they never fail the read.
func (s *CommentService) ListComments(ctx context.Context) ([]entity.Comment, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, commentListKey).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				logger.Warn().Err(err).Msg("Error reading comment list from cache")
			}
		} else if cached != "" {
			var comments []entity.Comment
			if err := json.Unmarshal([]byte(cached), &comments); err == nil {
				return comments, nil
			} else {
				logger.Warn().Err(err).Msg("Error unmarshalling cached comment list")
			}
		}
	}

	comments, err := s.commentRepo.ListComments(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing comments")
		return nil, err
	}

	if s.rdb != nil {
		payload, err := json.Marshal(comments)
		if err == nil {
			if err := s.rdb.Set(ctx, commentListKey, payload, 0).Err(); err != nil {
				logger.Warn().Err(err).Msg("Error caching comment list")
			}
		}
	}

	return comments, nil
}

// AddComment persists an already-sanitized comment, invalidates the list cache
// and publishes a comment.created event. Publish failures are logged, not surfaced.
func (s *CommentService) AddComment(ctx context.Context, content string) (*entity.Comment, error) {
	comment := &entity.Comment{Content: content}

	created, err := s.commentRepo.CreateComment(ctx, comment)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating comment")
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, commentListKey).Err(); err != nil {
			logger.Warn().Err(err).Msgf("Error invalidating comment list cache after comment %d", created.ID)
		}
	}

	s.publishCommentCreated(ctx, created)

	return created, nil
}

func (s *CommentService) publishCommentCreated(ctx context.Context, comment *entity.Comment) {
	if s.kafkaWriter == nil {
		return
	}

	payload, err := json.Marshal(comment)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling comment %d event", comment.ID)
		return
	}

	err = s.kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("comment.created.%d", comment.ID)),
		Value: payload,
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error publishing comment.created event for comment %d", comment.ID)
	}
}
