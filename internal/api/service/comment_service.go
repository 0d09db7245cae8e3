package service

import (
	"context"

	"reviewhub/internal/api/access"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type CommentService interface {
	Create(ctx context.Context, actor *models.User, review *models.Review, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor *models.User, comment *models.Comment, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor *models.User, comment *models.Comment) error
	ListByReview(ctx context.Context, reviewID int64, page, pageSize int) (*dto.PaginatedResponse[dto.CommentResponse], error)
}

type commentService struct {
	commentRepo repository.CommentRepository
}

func NewCommentService(commentRepo repository.CommentRepository) CommentService {
	return &commentService{commentRepo: commentRepo}
}

func (s *commentService) Create(ctx context.Context, actor *models.User, review *models.Review, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	comment := &models.Comment{
		ReviewID: review.ID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *actor
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, comment *models.Comment, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if err := decisionErr(access.OwnerModeratorAdminWrite(actor, comment.AuthorID, false)); err != nil {
		return nil, err
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, comment *models.Comment) error {
	if err := decisionErr(access.OwnerModeratorAdminWrite(actor, comment.AuthorID, false)); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return orNotFound(err)
	}
	return nil
}

func (s *commentService) ListByReview(ctx context.Context, reviewID int64, page, pageSize int) (*dto.PaginatedResponse[dto.CommentResponse], error) {
	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}
