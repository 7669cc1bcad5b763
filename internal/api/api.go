package api

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"comment-board-service/internal/entity"
	"comment-board-service/internal/service"
	"comment-board-service/internal/validate"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUserByID retrieves a user by ID --> /users/:id
// The id is validated before any store access; the response is a sequence of
// zero or one users.
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := validate.ParseID(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	user, err := h.userService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(500, map[string]string{"error": "internal server error"})
	}

	users := []entity.User{}
	if user != nil {
		users = append(users, *user)
	}
	return c.JSON(200, users)
}

// ListUsers retrieves all users --> /users
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": "internal server error"})
	}
	return c.JSON(200, users)
}

// Login logs in a user --> /login
func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	login := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{}

	if err := c.Bind(&login); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.userService.Login(ctx, login.Username, login.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(401, map[string]string{"error": "invalid credentials"})
		}
		return c.JSON(500, map[string]string{"error": "internal server error"})
	}

	return c.JSON(200, map[string]string{"token": token})
}

// Me returns the profile of the authenticated token holder --> /users/me
func (h *UserHandler) Me(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}
	claims, ok := token.Claims.(*service.JwtCustomClaims)
	if !ok {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	user, err := h.userService.GetUserByUsername(c.Request().Context(), claims.Name)
	if err != nil {
		return c.JSON(500, map[string]string{"error": "internal server error"})
	}
	if user == nil {
		return c.JSON(404, map[string]string{"error": "user not found"})
	}

	return c.JSON(200, user)
}

// ValidateSession validates a session token --> /users/validate
func (h *UserHandler) ValidateSession(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.Request().Header.Get("Authorization")
	username := c.QueryParam("username")
	if token == "" || username == "" {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	storedToken, err := h.userService.ValidateSession(ctx, username)
	if err != nil || storedToken != token {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	return c.JSON(200, map[string]string{"message": "Session is valid"})
}

type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new instance of CommentHandler
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListComments retrieves all comments --> /comments
func (h *CommentHandler) ListComments(c echo.Context) error {
	comments, err := h.commentService.ListComments(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": "internal server error"})
	}
	return c.JSON(200, comments)
}

// CreateComment creates a new comment --> /comments
// Content is sanitized before any store access and persisted in escaped form.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	req := struct {
		Content string `json:"content"`
	}{}

	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	sanitized, err := validate.SanitizeContent(req.Content)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Comment cannot be empty"})
	}

	comment, err := h.commentService.AddComment(c.Request().Context(), sanitized)
	if err != nil {
		return c.JSON(500, map[string]string{"error": "internal server error"})
	}

	return c.JSON(201, map[string]interface{}{
		"message": "Comment added",
		"comment": comment,
	})
}
