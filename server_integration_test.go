package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"vidtube/pkg/storage"
	"vidtube/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fakeStore keeps uploaded objects in memory so integration tests don't need
// a live S3 endpoint.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, localPath, _ string) (*storage.Object, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, err
	}
	_ = os.Remove(localPath)
	key := "test/" + uuid.New().String()
	f.mu.Lock()
	f.objects[key] = data
	f.mu.Unlock()
	return &storage.Object{Key: key, URL: "http://fake-store/" + key}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	delete(f.objects, key)
	f.mu.Unlock()
	return nil
}

// newTestApp wires an App against the test database. Integration tests are
// opt-in: set DB_DSN_TEST=1 and DB_DSN to run them.
func newTestApp(t *testing.T) *App {
	t.Helper()
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	cfg := &Config{
		DSN:          os.Getenv("DB_DSN"),
		AutoMigrate:  true,
		CookieSecure: false,
		UploadTmpDir: t.TempDir(),
	}
	db, err := initDB(cfg)
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}
	tokens := token.NewService([]byte("test-access-secret"), []byte("test-refresh-secret"), 15*time.Minute, 720*time.Hour)
	return newApp(db, tokens, newFakeStore(), cfg)
}

func setupTestServer(t *testing.T) (*App, *gin.Engine) {
	app := newTestApp(t)
	r := gin.New()
	app.setupRoutes(r)
	return app, r
}

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, tok string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func performJSON(r http.Handler, method, path string, payload any, tok string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(payload)
	return performRequest(r, method, path, bytes.NewReader(b), tok, "application/json")
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v body=%s", err, rec.Body.String())
	}
	return env
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func addFilePart(t *testing.T, mw *multipart.Writer, field, filename string, data []byte) {
	t.Helper()
	w, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("multipart write: %v", err)
	}
}

type testAccount struct {
	username     string
	accessToken  string
	refreshToken string
	userID       uint
}

// registerAndLogin creates a fresh account over HTTP and logs it in.
func registerAndLogin(t *testing.T, r http.Handler) *testAccount {
	t.Helper()
	username := fmt.Sprintf("user%d", time.Now().UnixNano())

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("username", username)
	_ = mw.WriteField("email", username+"@example.com")
	_ = mw.WriteField("fullname", "Test User")
	_ = mw.WriteField("password", "pass123")
	addFilePart(t, mw, "avatar", "avatar.png", pngBytes(t))
	_ = mw.Close()

	resp := performRequest(r, http.MethodPost, "/api/v1/users/register", buf, "", mw.FormDataContentType())
	if resp.Code != http.StatusCreated {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performJSON(r, http.MethodPost, "/api/v1/users/login",
		map[string]string{"username": username, "password": "pass123"}, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	data, _ := env["data"].(map[string]any)
	acc := &testAccount{username: username}
	acc.accessToken, _ = data["accessToken"].(string)
	acc.refreshToken, _ = data["refreshToken"].(string)
	if user, ok := data["user"].(map[string]any); ok {
		if id, ok := user["id"].(float64); ok {
			acc.userID = uint(id)
		}
	}
	if acc.accessToken == "" || acc.refreshToken == "" {
		t.Fatalf("empty tokens in login response: %+v", env)
	}
	return acc
}

func publishTestVideo(t *testing.T, r http.Handler, acc *testAccount, title string) uint {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("title", title)
	_ = mw.WriteField("description", "an integration test video")
	_ = mw.WriteField("duration", "42.5")
	addFilePart(t, mw, "video", "clip.mp4", []byte("FAKE VIDEO BYTES"))
	addFilePart(t, mw, "thumbnail", "thumb.png", pngBytes(t))
	_ = mw.Close()

	resp := performRequest(r, http.MethodPost, "/api/v1/videos", buf, acc.accessToken, mw.FormDataContentType())
	if resp.Code != http.StatusCreated {
		t.Fatalf("publish failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	data, _ := env["data"].(map[string]any)
	id, _ := data["id"].(float64)
	if id == 0 {
		t.Fatalf("no video id in response: %+v", env)
	}
	return uint(id)
}

func TestFullFlow(t *testing.T) {
	_, r := setupTestServer(t)

	// 1. Register + login two users
	alice := registerAndLogin(t, r)
	bob := registerAndLogin(t, r)

	// 2. Alice publishes a video
	videoID := publishTestVideo(t, r, alice, fmt.Sprintf("flow %d", time.Now().UnixNano()))

	// 3. Anonymous fetch works while published
	resp := performRequest(r, http.MethodGet, fmt.Sprintf("/api/v1/videos/%d", videoID), nil, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get video failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 4. Bob comments
	resp = performJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/comments/%d", videoID),
		map[string]string{"content": "nice one"}, bob.accessToken)
	if resp.Code != http.StatusCreated {
		t.Fatalf("comment failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Bob likes then unlikes the video
	resp = performJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/likes/toggle/v/%d", videoID), nil, bob.accessToken)
	env := decodeEnvelope(t, resp)
	if data, _ := env["data"].(map[string]any); data["state"] != "created" {
		t.Fatalf("expected like created, got %+v", env)
	}
	resp = performJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/likes/toggle/v/%d", videoID), nil, bob.accessToken)
	env = decodeEnvelope(t, resp)
	if data, _ := env["data"].(map[string]any); data["state"] != "removed" {
		t.Fatalf("expected like removed, got %+v", env)
	}

	// 6. Bob subscribes to Alice; self-subscription is rejected
	resp = performJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", alice.userID), nil, bob.accessToken)
	if resp.Code != http.StatusOK {
		t.Fatalf("subscribe failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", bob.userID), nil, bob.accessToken)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("self-subscribe should be 400, got %d", resp.Code)
	}

	// 7. Alice unpublishes; the draft turns invisible to Bob and anonymous
	resp = performJSON(r, http.MethodPatch, fmt.Sprintf("/api/v1/videos/toggle/publish/%d", videoID), nil, alice.accessToken)
	if resp.Code != http.StatusOK {
		t.Fatalf("toggle publish failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/api/v1/videos/%d", videoID), nil, bob.accessToken, "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("draft should be 403 for non-owner, got %d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/api/v1/videos/%d", videoID), nil, "", "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("draft should be 403 for anonymous, got %d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/api/v1/videos/%d", videoID), nil, alice.accessToken, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("draft should stay visible to its owner, got %d", resp.Code)
	}

	// 8. Channel profile reflects the subscription
	resp = performRequest(r, http.MethodGet, "/api/v1/users/c/"+alice.username, nil, bob.accessToken, "")
	env = decodeEnvelope(t, resp)
	if data, _ := env["data"].(map[string]any); data["isSubscribed"] != true {
		t.Fatalf("expected isSubscribed=true, got %+v", env)
	}
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	_, r := setupTestServer(t)
	acc := registerAndLogin(t, r)

	// rotate
	resp := performJSON(r, http.MethodPost, "/api/v1/users/refresh-token",
		map[string]string{"refreshToken": acc.refreshToken}, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("refresh failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	data, _ := env["data"].(map[string]any)
	newRefresh, _ := data["refreshToken"].(string)
	if newRefresh == "" || newRefresh == acc.refreshToken {
		t.Fatalf("rotation did not produce a new refresh token")
	}

	// replaying the pre-rotation value must fail closed
	resp = performJSON(r, http.MethodPost, "/api/v1/users/refresh-token",
		map[string]string{"refreshToken": acc.refreshToken}, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("stale refresh token should be 401, got %d body=%s", resp.Code, resp.Body.String())
	}

	// the freshly issued value still works
	resp = performJSON(r, http.MethodPost, "/api/v1/users/refresh-token",
		map[string]string{"refreshToken": newRefresh}, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("new refresh token rejected status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestConcurrentRefreshHonorsTokenOnce(t *testing.T) {
	_, r := setupTestServer(t)
	acc := registerAndLogin(t, r)

	const n = 4
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := performJSON(r, http.MethodPost, "/api/v1/users/refresh-token",
				map[string]string{"refreshToken": acc.refreshToken}, "")
			codes[i] = resp.Code
		}(i)
	}
	wg.Wait()

	// however the requests interleave, the stored token rotates exactly once
	ok := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusUnauthorized:
		default:
			t.Fatalf("unexpected refresh status %d", code)
		}
	}
	if ok != 1 {
		t.Fatalf("the same refresh token was honored %d times, want exactly once", ok)
	}
}

func TestLikedVideosHideDrafts(t *testing.T) {
	_, r := setupTestServer(t)
	alice := registerAndLogin(t, r)
	bob := registerAndLogin(t, r)
	videoID := publishTestVideo(t, r, alice, fmt.Sprintf("liked %d", time.Now().UnixNano()))

	resp := performJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/likes/toggle/v/%d", videoID), nil, bob.accessToken)
	if resp.Code != http.StatusOK {
		t.Fatalf("like failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	likedListContains := func(tok string) bool {
		resp := performRequest(r, http.MethodGet, "/api/v1/likes/videos", nil, tok, "")
		if resp.Code != http.StatusOK {
			t.Fatalf("liked videos failed status=%d body=%s", resp.Code, resp.Body.String())
		}
		env := decodeEnvelope(t, resp)
		items, _ := env["data"].([]any)
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				if id, _ := m["id"].(float64); uint(id) == videoID {
					return true
				}
			}
		}
		return false
	}

	if !likedListContains(bob.accessToken) {
		t.Fatalf("liked video missing from the list while published")
	}

	// unpublishing turns the video into a draft; it must vanish from the
	// liker's list even though the like edge still exists
	resp = performJSON(r, http.MethodPatch, fmt.Sprintf("/api/v1/videos/toggle/publish/%d", videoID), nil, alice.accessToken)
	if resp.Code != http.StatusOK {
		t.Fatalf("toggle publish failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if likedListContains(bob.accessToken) {
		t.Fatalf("draft leaked into the liked videos list")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	_, r := setupTestServer(t)
	acc := registerAndLogin(t, r)

	resp := performJSON(r, http.MethodPost, "/api/v1/users/logout", nil, acc.accessToken)
	if resp.Code != http.StatusOK {
		t.Fatalf("logout failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// the refresh token stored against the account is gone
	resp = performJSON(r, http.MethodPost, "/api/v1/users/refresh-token",
		map[string]string{"refreshToken": acc.refreshToken}, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout should be 401, got %d", resp.Code)
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	_, r := setupTestServer(t)

	resp := performRequest(r, http.MethodGet, "/api/v1/users/current-user", nil, "", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, "/api/v1/users/current-user", nil, "garbage-token", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", resp.Code)
	}
}
