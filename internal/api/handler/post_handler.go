package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/parnasoft/blog-platform/internal/api/metrics"
	"github.com/parnasoft/blog-platform/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List returns the posts visible to the caller, newest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        userType  query     string  false  "Role to scope visibility (anonymous when omitted)"
// @Param        featured  query     bool    false  "Only featured posts"
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {array}   postResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	input := ports.ListPostsInput{
		Role:     effectiveRole(c),
		Category: c.QueryParam("category"),
	}
	if f := c.QueryParam("featured"); f != "" {
		featured, err := strconv.ParseBool(f)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "featured must be a boolean")
		}
		input.Featured = &featured
	}

	posts, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostListResponse(posts))
}

// Search filters visible posts by a case-insensitive substring match across
// title, excerpt, content, and tags.
//
// @Summary      Search posts
// @Tags         posts
// @Produce      json
// @Param        q         query     string  true   "Search query"
// @Param        userType  query     string  false  "Role to scope visibility"
// @Success      200       {array}   postResponse
// @Router       /posts/search [get]
func (h *PostHandler) Search(c echo.Context) error {
	posts, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), effectiveRole(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostListResponse(posts))
}

// GetBySlug returns a single post. A post outside the caller's visibility is
// reported as not found.
//
// @Summary      Get a post by slug
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  postResponse
// @Failure      404   {object}  errorResponse
// @Router       /posts/{slug} [get]
func (h *PostHandler) GetBySlug(c echo.Context) error {
	post, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"), effectiveRole(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// GetByID is the id-addressed variant of GetBySlug.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/id/{id} [get]
func (h *PostHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	post, err := h.service.GetByID(c.Request().Context(), id, effectiveRole(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Create creates a new post. The server assigns id and publishedAt.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      createPostRequest  true  "Post data"
// @Success      201   {object}  postResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	post, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(post.Visibility)).Inc()
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Update replaces the post addressed by slug.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        slug  path      string             true  "Post slug"
// @Param        body  body      createPostRequest  true  "Full post record"
// @Success      200   {object}  postResponse
// @Failure      404   {object}  errorResponse
// @Router       /posts/{slug} [put]
func (h *PostHandler) Update(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	post, err := h.service.Update(c.Request().Context(), c.Param("slug"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// UpdateByID replaces the post addressed by id; it may change the slug.
//
// @Summary      Update a post by id
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Post id"
// @Param        body  body      createPostRequest  true  "Full post record"
// @Success      200   {object}  postResponse
// @Failure      404   {object}  errorResponse
// @Router       /posts/id/{id} [put]
func (h *PostHandler) UpdateByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	post, err := h.service.UpdateByID(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete removes the post addressed by slug.
//
// @Summary      Delete a post
// @Tags         posts
// @Param        slug  path  string  true  "Post slug"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /posts/{slug} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("slug")); err != nil {
		return err
	}
	metrics.PostsDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Stats returns post totals by visibility and author type.
//
// @Summary      Post statistics
// @Tags         posts
// @Produce      json
// @Success      200  {object}  postStatsResponse
// @Router       /posts/stats [get]
func (h *PostHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostStatsResponse(stats))
}
