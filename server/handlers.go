package server

import (
	"fmt"
	"strconv"

	"postapi/db"
	"postapi/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type handlers struct {
	posts PostStore
}

// deleteBody carries the id of a DELETE without a path parameter
type deleteBody struct {
	ID     *int64 `json:"id" form:"id"`
	PostID *int64 `json:"postId" form:"postId"`
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

func parsePayload(c *fiber.Ctx) (models.Payload, error) {
	var payload models.Payload
	if err := c.BodyParser(&payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return payload, nil
}

// Add a new post
func (h *handlers) createPost(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"body": string(c.Body()),
	}).Debug("Got post")

	env, err := h.posts.Create(c.UserContext(), models.NewPost(payload))
	if err != nil {
		return err
	}
	return c.JSON(env)
}

// List all posts, one page at a time
func (h *handlers) listPosts(c *fiber.Ctx) error {
	env, err := h.posts.List(c.UserContext(), db.ParsePage(c.Query("page")))
	if err != nil {
		return err
	}
	return c.JSON(env)
}

// Get a specific post
func (h *handlers) getPost(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	env, err := h.posts.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(env)
}

func (h *handlers) update(mode models.ColumnMode) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := parsePayload(c)
		if err != nil {
			return err
		}
		if payload.PostID == nil {
			return ErrMissingID
		}

		env, err := h.posts.Update(c.UserContext(), models.NewPost(payload), mode)
		if err != nil {
			return err
		}
		return c.JSON(env)
	}
}

// Replace every field of a post
func (h *handlers) putPost(c *fiber.Ctx) error {
	return h.update(models.ColumnsAll)(c)
}

// Change only the given fields of a post
func (h *handlers) patchPost(c *fiber.Ctx) error {
	return h.update(models.ColumnsPresent)(c)
}

// Delete a post, the id comes from the path or the body
func (h *handlers) deletePost(c *fiber.Ctx) error {
	target := deleteTarget(c)
	if target == "" {
		return ErrMissingID
	}

	id, err := parseID(target)
	if err != nil {
		return err
	}

	env, err := h.posts.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(env)
}

// deleteTarget returns the raw id a DELETE refers to, or "" if none.
func deleteTarget(c *fiber.Ctx) string {
	if id := c.Params("id"); id != "" {
		return id
	}
	if len(c.Body()) == 0 {
		return ""
	}

	var body deleteBody
	if err := c.BodyParser(&body); err != nil {
		return ""
	}
	switch {
	case body.ID != nil:
		return strconv.FormatInt(*body.ID, 10)
	case body.PostID != nil:
		return strconv.FormatInt(*body.PostID, 10)
	}
	return ""
}
