package controller

import (
	"errors"
	"io"
	"path"
	"strings"

	"notecapture-be/internal/dto"
	"notecapture-be/internal/pkg/serverutils"
	"notecapture-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStorageController interface {
	RegisterRoutes(r fiber.Router)
	RegisterPublicRoutes(r fiber.Router)
	UploadImage(ctx *fiber.Ctx) error
	ServeObject(ctx *fiber.Ctx) error
}

type storageController struct {
	storageService service.IStorageService
	maxBytes       int64
}

func NewStorageController(storageService service.IStorageService, maxBytes int64) IStorageController {
	return &storageController{
		storageService: storageService,
		maxBytes:       maxBytes,
	}
}

func (c *storageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/storage/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("images", c.UploadImage)
}

// RegisterPublicRoutes serves stored objects at /uploads/<path>.
func (c *storageController) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/uploads/*", c.ServeObject)
}

func (c *storageController) UploadImage(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file")
	}

	if c.maxBytes > 0 && fileHeader.Size > c.maxBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "File too large")
	}

	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		return fiber.NewError(fiber.StatusBadRequest, "Only image uploads are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	key, err := c.storageService.Upload(ctx.Context(), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFileName) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid file name")
		}
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload image", dto.UploadImageResponse{Path: key}))
}

// ServeObject reads the object on every request so a removed image is gone
// immediately.
func (c *storageController) ServeObject(ctx *fiber.Ctx) error {
	key := ctx.Params("*")

	rc, err := c.storageService.Open(key)
	if err != nil {
		if errors.Is(err, service.ErrObjectNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Object not found")
		}
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}

	if ext := path.Ext(key); ext != "" {
		ctx.Type(ext)
	}
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	return ctx.Send(data)
}
