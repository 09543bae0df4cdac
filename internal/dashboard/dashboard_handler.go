package dashboard

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// DashboardHandler
type DashboardHandler struct {
	service *Service
}

// NewDashboardHandler
func NewDashboardHandler(service *Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// HandleShowDashboard handles 'GET /dashboard'.
func (h *DashboardHandler) HandleShowDashboard(c *fiber.Ctx) error {
	userEmail, _ := c.Locals("user_email").(string)
	userName, _ := c.Locals("user_name").(string)

	data, err := h.service.GetDashboardData(c.UserContext())
	if err != nil {
		log.Errorf("Dashboard data query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load dashboard data")
	}

	return c.Render("dashboard", fiber.Map{
		"Title":     "Channel Master | Dashboard",
		"Data":      data,
		"UserEmail": userEmail,
		"UserName":  userName,
	}, "layout")
}
