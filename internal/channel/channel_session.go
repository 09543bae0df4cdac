package channel

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"

	"channelmaster/internal/youtube"
)

// Session keys. Values are JSON strings so that the MySQL session storage
// never has to gob-encode our structs.
const (
	sessionKeyContext = "channel_ctx"
	sessionKeyDraft   = "channel_form_draft"
)

// SessionContext is what the last lookup left behind for this operator.
// A new lookup replaces it wholesale; Clear removes it.
type SessionContext struct {
	ChannelID   string               `json:"channel_id"`
	Record      *ChannelRecord       `json:"record"`   // nil: new channel
	Metadata    *youtube.ChannelInfo `json:"metadata"` // nil: no refresh or refresh failed
	Refreshed   bool                 `json:"refreshed"`
	MetadataErr string               `json:"metadata_err,omitempty"`
}

// LookedUp reports whether Save is allowed.
func (sc *SessionContext) LookedUp() bool {
	return sc != nil && sc.ChannelID != ""
}

func loadContext(sess *session.Session) *SessionContext {
	raw, ok := sess.Get(sessionKeyContext).(string)
	if !ok || raw == "" {
		return &SessionContext{}
	}
	sc := &SessionContext{}
	if err := json.Unmarshal([]byte(raw), sc); err != nil {
		log.Warnf("Discarding unreadable channel session context: %v", err)
		return &SessionContext{}
	}
	return sc
}

func storeContext(sess *session.Session, sc *SessionContext) error {
	b, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	sess.Set(sessionKeyContext, string(b))
	return nil
}

// loadDraft returns the form the operator posted on a failed save, if any.
func loadDraft(sess *session.Session) *ChannelForm {
	raw, ok := sess.Get(sessionKeyDraft).(string)
	if !ok || raw == "" {
		return nil
	}
	form := &ChannelForm{}
	if err := json.Unmarshal([]byte(raw), form); err != nil {
		return nil
	}
	return form
}

func storeDraft(sess *session.Session, form ChannelForm) error {
	b, err := json.Marshal(form)
	if err != nil {
		return err
	}
	sess.Set(sessionKeyDraft, string(b))
	return nil
}

func clearContext(sess *session.Session) {
	sess.Delete(sessionKeyContext)
	sess.Delete(sessionKeyDraft)
}
