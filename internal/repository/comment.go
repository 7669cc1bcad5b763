package repository

import (
	"context"
	"database/sql"

	"comment-board-service/internal/entity"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db}
}

// CreateComment inserts a comment and fills in the store-assigned id.
// Content is expected to be sanitized by the caller; comments are append-only.
func (r *CommentRepository) CreateComment(ctx context.Context, comment *entity.Comment) (*entity.Comment, error) {
	query := `INSERT INTO comments (content) VALUES (?)`
	res, err := r.db.ExecContext(ctx, query, comment.Content)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	comment.ID = int(id)
	return comment, nil
}

func (r *CommentRepository) ListComments(ctx context.Context) ([]entity.Comment, error) {
	query := `SELECT id, content FROM comments ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []entity.Comment{}
	for rows.Next() {
		comment := entity.Comment{}
		err := rows.Scan(&comment.ID, &comment.Content)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}
