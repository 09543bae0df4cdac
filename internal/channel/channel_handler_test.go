package channel

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channelmaster/internal/youtube"
)

type testClient struct {
	app    *fiber.App
	cookie string
}

func newTestClient(t *testing.T, svc *Service) *testClient {
	t.Helper()

	engine := html.New("../../web/views", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_email", "lysa@example.com")
		c.Locals("user_name", "Lysa")
		return c.Next()
	})

	h := NewChannelHandler(svc, session.New())
	app.Get("/channels", h.HandleShowChannelPage)
	app.Post("/channels/lookup", h.HandleLookup)
	app.Post("/channels/clear", h.HandleClear)
	app.Post("/channels/save", h.HandleSave)

	return &testClient{app: app}
}

func (tc *testClient) do(t *testing.T, method, path string, form url.Values) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	}
	if tc.cookie != "" {
		req.Header.Set("Cookie", tc.cookie)
	}

	resp, err := tc.app.Test(req, -1)
	require.NoError(t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == "session_id" && ck.Value != "" {
			tc.cookie = ck.Name + "=" + ck.Value
		}
	}
	return resp
}

func (tc *testClient) page(t *testing.T) string {
	t.Helper()
	resp := tc.do(t, http.MethodGet, "/channels", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHandlerEmptyState(t *testing.T) {
	tc := newTestClient(t, NewService(newMemStore(), &fakeFetcher{}, nil, ""))

	body := tc.page(t)
	assert.Contains(t, body, "Enter a CHANNEL_ID and click Lookup.")
	assert.Contains(t, body, "<fieldset disabled>")
}

func TestHandlerSaveWithoutLookup(t *testing.T) {
	store := newMemStore()
	tc := newTestClient(t, NewService(store, &fakeFetcher{}, nil, ""))

	resp := tc.do(t, http.MethodPost, "/channels/save", url.Values{"artist_name": {"x"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/channels", resp.Header.Get("Location"))

	body := tc.page(t)
	assert.Contains(t, body, ErrNoLookup.Error())
	assert.Empty(t, store.rows)
}

func TestHandlerLookupAndSave(t *testing.T) {
	store := newMemStore()
	store.rows["UC1"] = ChannelRecord{ChannelID: "UC1", ChannelTitle: strPtr("Stored Title"), LabelPub: strPtr("yes")}
	fetcher := &fakeFetcher{info: &youtube.ChannelInfo{Title: strPtr("Fresh Title"), DateCreated: datePtr(2012, 3, 1)}}
	tc := newTestClient(t, NewService(store, fetcher, nil, ""))

	// 1. Lookup
	resp := tc.do(t, http.MethodPost, "/channels/lookup", url.Values{"channel_id": {" UC1 "}, "refresh": {"true"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	body := tc.page(t)
	assert.Contains(t, body, "Loaded existing record.")
	assert.Contains(t, body, `value="Fresh Title"`)
	assert.Contains(t, body, `value="2012-03-01"`)
	assert.Contains(t, body, "https://www.youtube.com/channel/UC1")
	assert.Contains(t, body, `value="Lysa"`)
	assert.NotContains(t, body, "<fieldset disabled>")

	// 2. Save
	resp = tc.do(t, http.MethodPost, "/channels/save", url.Values{
		"channel_title": {"Fresh Title"},
		"artist_name":   {"Example Artist"},
		"status":        {"Public"},
		"label_pub":     {"Y"},
		"oac":           {"true"},
		"date_gained":   {"2023-04-05"},
		"updated_by":    {"Lysa"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	row := store.rows["UC1"]
	assert.Equal(t, "Fresh Title", *row.ChannelTitle)
	assert.Equal(t, "Example Artist", *row.ArtistName)
	assert.Equal(t, "Y", *row.LabelPub)
	assert.True(t, row.OAC)
	assert.Equal(t, "2012-03-01", row.DateCreated.Format(dateLayout))
	assert.Equal(t, "2023-04-05", row.DateGained.Format(dateLayout))

	body = tc.page(t)
	assert.Contains(t, body, "Saved UC1.")
}

func TestHandlerFailedSaveKeepsDraft(t *testing.T) {
	store := newMemStore()
	tc := newTestClient(t, NewService(store, &fakeFetcher{info: &youtube.ChannelInfo{}}, nil, ""))

	tc.do(t, http.MethodPost, "/channels/lookup", url.Values{"channel_id": {"UCnew"}, "refresh": {"true"}})
	body := tc.page(t)
	assert.Contains(t, body, "No record found. You are creating a new record.")

	resp := tc.do(t, http.MethodPost, "/channels/save", url.Values{
		"artist_name": {"Draft Artist"},
		"status":      {"Archived"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Empty(t, store.rows)

	body = tc.page(t)
	assert.Contains(t, body, "Save failed")
	assert.Contains(t, body, `value="Draft Artist"`)
}

func TestHandlerLookupMetadataWarning(t *testing.T) {
	store := newMemStore()
	fetcher := &fakeFetcher{err: &youtube.APIError{StatusCode: 403, Body: "quotaExceeded"}}
	tc := newTestClient(t, NewService(store, fetcher, nil, ""))

	tc.do(t, http.MethodPost, "/channels/lookup", url.Values{"channel_id": {"UC1"}, "refresh": {"true"}})
	body := tc.page(t)
	assert.Contains(t, body, "YouTube API refresh failed")
	assert.Contains(t, body, "quotaExceeded")
}

func TestHandlerLookupInvalidID(t *testing.T) {
	tc := newTestClient(t, NewService(newMemStore(), &fakeFetcher{}, nil, ""))

	tc.do(t, http.MethodPost, "/channels/lookup", url.Values{"channel_id": {"bad id!"}})
	body := tc.page(t)
	assert.Contains(t, body, "Lookup failed")
	assert.Contains(t, body, "Enter a CHANNEL_ID and click Lookup.")
}

func TestHandlerClear(t *testing.T) {
	tc := newTestClient(t, NewService(newMemStore(), &fakeFetcher{}, nil, ""))

	tc.do(t, http.MethodPost, "/channels/lookup", url.Values{"channel_id": {"UC1"}})
	assert.Contains(t, tc.page(t), "No record found.")

	tc.do(t, http.MethodPost, "/channels/clear", url.Values{})
	assert.Contains(t, tc.page(t), "Enter a CHANNEL_ID and click Lookup.")
}

func TestHandlerUpdatedByIsSignedInOperator(t *testing.T) {
	store := newMemStore()
	store.rows["UC1"] = ChannelRecord{ChannelID: "UC1", ArtistName: strPtr("Artist"), UpdatedBy: strPtr("Bob")}
	tc := newTestClient(t, NewService(store, &fakeFetcher{}, nil, ""))

	tc.do(t, http.MethodPost, "/channels/lookup", url.Values{"channel_id": {"UC1"}})
	body := tc.page(t)
	assert.Contains(t, body, "Loaded existing record.")
	assert.Contains(t, body, `value="Lysa"`)
	assert.NotContains(t, body, `value="Bob"`)

	// 1. A draft keeps what the operator typed
	resp := tc.do(t, http.MethodPost, "/channels/save", url.Values{
		"artist_name": {"Artist"},
		"status":      {"Archived"},
		"updated_by":  {"Carol"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	body = tc.page(t)
	assert.Contains(t, body, `value="Carol"`)

	// 2. Save as the signed-in operator
	resp = tc.do(t, http.MethodPost, "/channels/save", url.Values{
		"artist_name": {"Artist"},
		"updated_by":  {"Lysa"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.NotNil(t, store.rows["UC1"].UpdatedBy)
	assert.Equal(t, "Lysa", *store.rows["UC1"].UpdatedBy)
}

func TestHandlerFlashDraftAndClearLifecycle(t *testing.T) {
	store := newMemStore()
	tc := newTestClient(t, NewService(store, &fakeFetcher{info: &youtube.ChannelInfo{Title: strPtr("Fresh Title")}}, nil, ""))

	tc.do(t, http.MethodPost, "/channels/lookup", url.Values{"channel_id": {"UCnew"}, "refresh": {"true"}})
	body := tc.page(t)
	assert.Contains(t, body, "No record found. You are creating a new record.")
	assert.Contains(t, body, `value="Fresh Title"`)
	assert.NotContains(t, body, "<fieldset disabled>")

	// 1. Failed save: flash once, draft on every render
	tc.do(t, http.MethodPost, "/channels/save", url.Values{
		"artist_name": {"Draft Artist"},
		"status":      {"Archived"},
	})
	body = tc.page(t)
	assert.Contains(t, body, "Save failed")
	assert.Contains(t, body, `value="Draft Artist"`)

	body = tc.page(t)
	assert.NotContains(t, body, "Save failed")
	assert.Contains(t, body, `value="Draft Artist"`)
	assert.Contains(t, body, "No record found. You are creating a new record.")

	// 2. Successful save drops the draft and switches to the stored record
	resp := tc.do(t, http.MethodPost, "/channels/save", url.Values{
		"artist_name": {"Saved Artist"},
		"status":      {"Public"},
		"updated_by":  {"Lysa"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Contains(t, store.rows, "UCnew")

	body = tc.page(t)
	assert.Contains(t, body, "Saved UCnew.")
	assert.Contains(t, body, "Loaded existing record.")
	assert.Contains(t, body, `value="Saved Artist"`)
	assert.NotContains(t, body, `value="Draft Artist"`)

	body = tc.page(t)
	assert.NotContains(t, body, "Saved UCnew.")

	// 3. Clear resets the context; saving now needs a new lookup
	tc.do(t, http.MethodPost, "/channels/clear", url.Values{})
	body = tc.page(t)
	assert.Contains(t, body, "Enter a CHANNEL_ID and click Lookup.")
	assert.Contains(t, body, "<fieldset disabled>")
	assert.NotContains(t, body, `value="Saved Artist"`)

	upserts := store.upserts
	tc.do(t, http.MethodPost, "/channels/save", url.Values{"artist_name": {"Saved Artist"}})
	assert.Contains(t, tc.page(t), ErrNoLookup.Error())
	assert.Equal(t, upserts, store.upserts)
}
