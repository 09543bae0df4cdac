package auth

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"
)

// AuthHandler
type AuthHandler struct {
	service *Service
	store   *session.Store
}

// NewAuthHandler
func NewAuthHandler(service *Service, store *session.Store) *AuthHandler {
	return &AuthHandler{
		service: service,
		store:   store,
	}
}

// --- Login ---

func (h *AuthHandler) HandleShowLoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Title": "Channel Master | Login",
	}, "layout")
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	type loginForm struct {
		Email string `form:"email"`
	}
	form := new(loginForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}

	status, op, err := h.service.CheckLoginStatus(form.Email)
	if err != nil {
		log.Errorf("Login lookup failed: %v", err)
		return c.Render("login", fiber.Map{
			"Title": "Channel Master | Login",
			"Error": "A server error occurred during login.",
		}, "layout")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}

	switch status {
	case StatusUserNotFound:
		return c.Render("login", fiber.Map{
			"Title": "Channel Master | Login",
			"Error": "This email is not registered as an operator.",
		}, "layout")

	case StatusPendingVerification:
		return c.Render("login", fiber.Map{
			"Title": "Channel Master | Login",
			"Error": "This operator account is not enabled yet.",
		}, "layout")

	case StatusRequiresOtpSetup:
		sess.Set(sessionKeySetupEmail, op.Email)
		if err := sess.Save(); err != nil {
			log.Errorf("Session save failed (otp_setup): %v", err)
			return c.Status(fiber.StatusInternalServerError).SendString("session error")
		}
		return c.Redirect("/auth/setup-otp")

	case StatusRequiresOtp:
		sess.Set(sessionKeyVerifyEmail, op.Email)
		if err := sess.Save(); err != nil {
			log.Errorf("Session save failed (otp_verify): %v", err)
			return c.Status(fiber.StatusInternalServerError).SendString("session error")
		}
		return c.Redirect("/auth/verify-otp")

	default:
		return c.Status(fiber.StatusInternalServerError).SendString("unknown login state")
	}
}

// --- First-time OTP setup ---

func (h *AuthHandler) HandleShowSetupOTP(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed (setup-otp): %v", err)
		return c.Redirect("/auth/login")
	}

	email, ok := sess.Get(sessionKeySetupEmail).(string)
	if !ok {
		log.Warnf("'%s' missing from session", sessionKeySetupEmail)
		return c.Redirect("/auth/login")
	}

	errorMsg := popFlash(sess, "flash_error")

	secret, qrImage, err := h.service.GenerateOTP(email)
	if err != nil {
		return c.Render("login", fiber.Map{"Error": "OTP generation failed"}, "layout")
	}

	// Save releases the session; nothing reads it afterwards.
	sess.Set(sessionKeySetupSecret, secret)
	if err := sess.Save(); err != nil {
		log.Errorf("Session save failed (otp_setup_secret): %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}

	return c.Render("setup_otp", fiber.Map{
		"Title":       "Channel Master | OTP setup",
		"Email":       email,
		"QRCodeImage": template.URL("data:image/png;base64," + qrImage),
		"Secret":      secret,
		"Error":       errorMsg,
	}, "layout")
}

func (h *AuthHandler) HandleProcessSetupOTP(c *fiber.Ctx) error {
	type otpForm struct {
		OtpToken string `form:"otp_token"`
	}
	form := new(otpForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed (process-setup-otp): %v", err)
		return c.Redirect("/auth/login")
	}

	email, okEmail := sess.Get(sessionKeySetupEmail).(string)
	secret, okSecret := sess.Get(sessionKeySetupSecret).(string)
	if !okEmail || !okSecret {
		log.Warn("OTP setup session values missing")
		return c.Redirect("/auth/login")
	}

	if !h.service.ValidateOTP(form.OtpToken, secret) {
		log.Warnf("OTP setup code rejected: %s", email)
		sess.Set("flash_error", "The code is not valid. Please try again.")
		if err := sess.Save(); err != nil {
			log.Errorf("Session save failed (flash): %v", err)
		}
		return c.Redirect("/auth/setup-otp")
	}

	if err := h.service.FinalizeOTPSetup(email, secret); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to store OTP secret")
	}

	op, err := h.service.GetOperator(email)
	if op == nil || err != nil {
		log.Errorf("Operator reload after OTP setup failed: %v", err)
		return c.Redirect("/auth/login")
	}

	sess.Delete(sessionKeySetupEmail)
	sess.Delete(sessionKeySetupSecret)
	return h.completeLogin(c, sess, op)
}

// --- Regular OTP verification ---

func (h *AuthHandler) HandleShowVerifyOTP(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed (show-verify-otp): %v", err)
		return c.Redirect("/auth/login")
	}

	email, ok := sess.Get(sessionKeyVerifyEmail).(string)
	if !ok {
		log.Warnf("'%s' missing from session", sessionKeyVerifyEmail)
		return c.Redirect("/auth/login")
	}

	errorMsg := popFlash(sess, "flash_error")
	if err := sess.Save(); err != nil {
		log.Errorf("Session save failed (verify-otp flash): %v", err)
	}

	return c.Render("verify_otp", fiber.Map{
		"Title": "Channel Master | Two-step verification",
		"Email": email,
		"Error": errorMsg,
	}, "layout")
}

func (h *AuthHandler) HandleProcessVerifyOTP(c *fiber.Ctx) error {
	type otpForm struct {
		OtpToken string `form:"otp_token"`
	}
	form := new(otpForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Session load failed (process-verify-otp): %v", err)
		return c.Redirect("/auth/login")
	}

	email, ok := sess.Get(sessionKeyVerifyEmail).(string)
	if !ok {
		log.Warn("OTP verify session value missing")
		return c.Redirect("/auth/login")
	}

	op, err := h.service.GetOperator(email)
	if op == nil || err != nil || op.OtpCode == nil {
		log.Errorf("Operator or OTP secret not found during verification: %s", email)
		return c.Redirect("/auth/login")
	}

	if !h.service.ValidateOTP(form.OtpToken, *op.OtpCode) {
		log.Warnf("OTP code rejected: %s", email)
		sess.Set("flash_error", "The code is not valid.")
		if err := sess.Save(); err != nil {
			log.Errorf("Session save failed (flash): %v", err)
		}
		return c.Redirect("/auth/verify-otp")
	}

	sess.Delete(sessionKeyVerifyEmail)
	return h.completeLogin(c, sess, op)
}

func (h *AuthHandler) completeLogin(c *fiber.Ctx, sess *session.Session, op *Operator) error {
	// new id on privilege change
	if err := sess.Regenerate(); err != nil {
		log.Errorf("Session regenerate failed: %v", err)
	}
	sess.Set(SessionKeyEmail, op.Email)
	sess.Set(SessionKeyUserID, op.ID)
	sess.Set(SessionKeyUserName, op.UserName)
	if err := sess.Save(); err != nil {
		log.Errorf("Login session save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}
	h.service.RecordLogin(op)

	log.Infof("Operator logged in: %s", op.Email)
	return c.Redirect("/dashboard")
}

// --- Logout ---

func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("Logout: session load failed: %v", err)
		return c.Redirect("/auth/login")
	}

	if err := sess.Destroy(); err != nil {
		log.Errorf("Logout: session destroy failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("logout failed")
	}

	return c.Redirect("/auth/login")
}

// popFlash reads and clears a one-shot message. The caller saves the session.
func popFlash(sess *session.Session, key string) string {
	v, ok := sess.Get(key).(string)
	if !ok {
		return ""
	}
	sess.Delete(key)
	return v
}
