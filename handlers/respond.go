// handlers/respond.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"recycling-rewards-backend/services"
	"recycling-rewards-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const maxImageBytes = 5 << 20

var validate = validator.New()

// respondError maps a domain error onto its HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidArgument):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrExpired):
		status = fiber.StatusGone
	}

	if status == fiber.StatusInternalServerError {
		utils.LogError("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// bindJSON decodes the body into dst and runs its validate tags. The error
// text is safe to return to the client.
func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" failed "+fe.Tag())
			}
			return errors.New("validation failed: " + strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// pageParams reads ?page= and ?size=; the services clamp the values.
func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("size", 20)
}

// optionalBool parses ?name=true|false; absent means no filter.
func optionalBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// readImage loads the "image" multipart field and sniffs its content type.
func readImage(c *fiber.Ctx) (filename, contentType string, body []byte, err error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", "", nil, errors.New("image file is required")
	}
	if fh.Size > maxImageBytes {
		return "", "", nil, errors.New("image is larger than 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer f.Close()

	body, err = io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return "", "", nil, err
	}
	contentType = http.DetectContentType(body)
	if !allowedImageTypes[contentType] {
		return "", "", nil, errors.New("only JPEG, PNG, WebP and GIF images are allowed")
	}
	return fh.Filename, contentType, body, nil
}
