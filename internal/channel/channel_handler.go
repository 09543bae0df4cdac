package channel

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"
)

// Banner states of the editor page.
const (
	BannerEnterID  = "enter_id"
	BannerExisting = "existing"
	BannerNew      = "new"
)

type ChannelHandler struct {
	service *Service
	store   *session.Store
}

func NewChannelHandler(service *Service, store *session.Store) *ChannelHandler {
	return &ChannelHandler{
		service: service,
		store:   store,
	}
}

// HandleShowChannelPage handles 'GET /channels'.
func (h *ChannelHandler) HandleShowChannelPage(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed (channels): %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}

	// 1. Flash messages, context and draft. Save releases the session, so it runs last.
	flashSuccess := sess.Get("flash_success")
	flashWarning := sess.Get("flash_warning")
	flashError := sess.Get("flash_error")
	sc := loadContext(sess)
	draft := loadDraft(sess)
	sess.Delete("flash_success")
	sess.Delete("flash_warning")
	sess.Delete("flash_error")
	if err := sess.Save(); err != nil {
		log.Errorf("Session save failed (channels flash): %v", err)
	}

	// 2. Form
	banner := BannerEnterID
	operator := localString(c, "user_name")
	form := ChannelForm{UpdatedBy: operator}
	if sc.LookedUp() {
		defaults := DisplayDefaults(sc.Record, sc.Metadata)
		form = defaults
		form.UpdatedBy = operator
		if draft != nil {
			form = *draft
			form.DateCreated = defaults.DateCreated
		}
		banner = BannerNew
		if sc.Record != nil {
			banner = BannerExisting
		}
	}

	metadataJSON := ""
	if sc.Metadata != nil {
		if b, err := json.MarshalIndent(sc.Metadata, "", "  "); err == nil {
			metadataJSON = string(b)
		}
	}

	return c.Render("channels", fiber.Map{
		"Title":        "Channel Master | Editor",
		"UserEmail":    localString(c, "user_email"),
		"UserName":     localString(c, "user_name"),
		"Context":      sc,
		"CanSave":      sc.LookedUp(),
		"Banner":       banner,
		"URL":          ComputeURL(sc.ChannelID),
		"Form":         form,
		"MetadataJSON": metadataJSON,
		"Options": fiber.Map{
			"Status":           StatusOptions,
			"YesNo":            YesNoOptions,
			"LoginAffiliation": LoginAffiliationOptions,
			"AccessLevel":      AccessLevelOptions,
			"GainCreate":       GainCreateOptions,
			"YPPStatus":        YPPStatusOptions,
		},
		"FlashSuccess": flashSuccess,
		"FlashWarning": flashWarning,
		"FlashError":   flashError,
	}, "layout")
}

// HandleLookup handles 'POST /channels/lookup'.
func (h *ChannelHandler) HandleLookup(c *fiber.Ctx) error {
	type lookupForm struct {
		ChannelID string `form:"channel_id"`
		Refresh   bool   `form:"refresh"`
	}
	form := new(lookupForm)
	if err := c.BodyParser(form); err != nil {
		log.Warnf("Lookup form parse failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed (lookup): %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}

	result, err := h.service.Lookup(c.UserContext(), form.ChannelID, form.Refresh)
	if err != nil {
		sess.Set("flash_error", "Lookup failed: "+err.Error())
		if err := sess.Save(); err != nil {
			log.Errorf("Session save failed (lookup error): %v", err)
		}
		return c.Redirect("/channels")
	}

	// A lookup replaces the whole context, including any stale draft.
	clearContext(sess)
	if err := storeContext(sess, result.SessionContext()); err != nil {
		log.Errorf("Session context encode failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}
	if result.MetadataErr != nil {
		sess.Set("flash_warning", "YouTube API refresh failed: "+result.MetadataErr.Error())
	}
	if err := sess.Save(); err != nil {
		log.Errorf("Session save failed (lookup): %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}

	log.Infof("Lookup done (channel_id=%s, existing=%t, refreshed=%t)", result.ChannelID, result.Record != nil, result.Refreshed)
	return c.Redirect("/channels")
}

// HandleClear handles 'POST /channels/clear'.
func (h *ChannelHandler) HandleClear(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed (clear): %v", err)
		return c.Redirect("/channels")
	}
	clearContext(sess)
	if err := sess.Save(); err != nil {
		log.Errorf("Session save failed (clear): %v", err)
	}
	return c.Redirect("/channels")
}

// HandleSave handles 'POST /channels/save'.
func (h *ChannelHandler) HandleSave(c *fiber.Ctx) error {
	form := new(ChannelForm)
	if err := c.BodyParser(form); err != nil {
		log.Warnf("Channel form parse failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed (save): %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}

	sc := loadContext(sess)
	saved, err := h.service.Save(c.UserContext(), sc, *form)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoLookup):
			sess.Set("flash_error", err.Error())
		default:
			// keep what the operator typed so they can retry
			if derr := storeDraft(sess, *form); derr != nil {
				log.Errorf("Draft encode failed: %v", derr)
			}
			sess.Set("flash_error", "Save failed: "+err.Error())
		}
		if err := sess.Save(); err != nil {
			log.Errorf("Session save failed (save error): %v", err)
		}
		return c.Redirect("/channels")
	}

	sc.Record = saved
	sess.Delete(sessionKeyDraft)
	if err := storeContext(sess, sc); err != nil {
		log.Errorf("Session context encode failed: %v", err)
	}
	sess.Set("flash_success", "Saved "+saved.ChannelID+".")
	if err := sess.Save(); err != nil {
		log.Errorf("Session save failed (save): %v", err)
	}
	return c.Redirect("/channels")
}

func localString(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return v
}
