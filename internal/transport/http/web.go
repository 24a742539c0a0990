// internal/transport/http/web.go
package http

import (
	"errors"
	"log"
	"strings"
	"time"

	"grateful-service/internal/store"
	"grateful-service/internal/web"

	"github.com/gofiber/fiber/v2"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

// Health reports process liveness plus which critical config is present.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "ok",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"hasDatabaseUrl": h.cfg.DatabaseURL != "" || h.cfg.DBHost != "",
		"hasExpoToken":   h.cfg.ExpoAccessToken != "",
	})
}

// Version tells the mobile client the minimum supported app version and
// where to fetch an update.
func (h *Handler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"minVersion":    h.cfg.MinAppVersion,
		"testflightUrl": h.cfg.TestflightURL,
		"playStoreUrl":  h.cfg.PlayStoreURL,
	})
}

// OGImage renders a social-preview SVG. Immutable cache headers let link
// scrapers and CDNs keep it forever.
func (h *Handler) OGImage(c *fiber.Ctx) error {
	var svg string
	if c.Query("type") == "circle" {
		name := c.Query("name")
		if name == "" {
			name = "Circle"
		}
		color := c.Query("color")
		if color == "" {
			color = "green"
		}
		svg = web.CircleInviteSVG(name, color)
	} else {
		svg = web.DefaultSVG()
	}

	c.Set(fiber.HeaderContentType, "image/svg+xml")
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendString(svg)
}

// JoinPage serves the shareable invite landing page for a circle.
func (h *Handler) JoinPage(c *fiber.Ctx) error {
	code := strings.ToUpper(strings.TrimSpace(c.Params("code")))

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

	circle, err := h.svc.CircleByInviteCode(c.Context(), code)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("❌ [JoinPage] lookup failed for %s: %v", code, err)
		}
		return c.Status(fiber.StatusNotFound).SendString(web.RenderInviteNotFound())
	}

	page, err := web.RenderInvitePage(web.InvitePage{
		CircleName: circle.Name,
		Color:      circle.Color,
		InviteCode: circle.InviteCode,
	})
	if err != nil {
		log.Printf("❌ [JoinPage] render failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong")
	}
	return c.SendString(page)
}

// UploadImage stores an entry photo in R2 and returns its public URL.
func (h *Handler) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
	}

	userID := actingUser(c, c.FormValue("userId"))
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId is required"})
	}

	if h.images == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image storage is not configured"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported image type (jpeg, png, webp, heic)"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("❌ [UploadImage] open failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}
	defer file.Close()

	url, err := h.images.UploadEntryImage(c.Context(), file, contentType, userID)
	if err != nil {
		log.Printf("❌ [UploadImage] upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
	}

	log.Printf("✅ [UploadImage] stored %s (%d bytes) for user %s", fileHeader.Filename, fileHeader.Size, userID)
	return c.JSON(fiber.Map{"success": true, "url": url})
}

// Contact queues a contact-form message for email delivery. Delivery runs in
// the background; SMTP failures never surface to the visitor.
func (h *Handler) Contact(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email and message are required"})
	}

	if !h.mailer.Configured() {
		log.Printf("⚠️ [Contact] SMTP not configured, dropping message from %s", req.Email)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "queued"})
	}

	go func(name, email, message string) {
		ctx, cancel := contextWithDeliveryTimeout()
		defer cancel()
		if err := h.mailer.SendContactMessage(ctx, name, email, message); err != nil {
			log.Printf("❌ [Contact] delivery failed for %s: %v", email, err)
		}
	}(req.Name, req.Email, req.Message)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "queued"})
}
