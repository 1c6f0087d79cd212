package handlers

import (
	"log"

	"productkart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles product image uploads from the admin back
// office.
type UploadHandler struct {
	service *services.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// RegisterRoutes registers the upload route with the Fiber app.
func (h *UploadHandler) RegisterRoutes(router fiber.Router, protect, adminOnly fiber.Handler) {
	router.Post("/upload", protect, adminOnly, h.HandleUpload)
}

// HandleUpload accepts one multipart image under the "image" field and
// responds with the hosted image URL as a plain string.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No file uploaded",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Upload failed",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	url, err := h.service.StoreImage(c.Context(), fileHeader.Filename, file)
	if err != nil {
		log.Printf("Error storing uploaded image: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.SendString(url)
}
