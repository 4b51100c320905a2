package testsupport

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeAPI is an in-memory stand-in for the pitch platform REST API. It
// accepts one account (Email/Password), hands out Token on sign-in and
// rejects any other bearer token with 401.
type FakeAPI struct {
	Server *httptest.Server

	Email    string
	Password string
	Token    string
	Role     string

	mu      sync.Mutex
	users   []map[string]any
	pitches []map[string]any
	uploads []Upload
	apiKeys []string
}

// Upload records one pitch/new submission.
type Upload struct {
	Fields map[string]string
	Files  map[string]string
}

// NewFakeAPI starts a fake API with a single admin account and one pending
// user and pitch. The server is closed on test cleanup.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	api := &FakeAPI{
		Email:    "admin@example.com",
		Password: "secret",
		Token:    "fake-token",
		Role:     "admin",
		users: []map[string]any{
			{"_id": "u1", "email": "admin@example.com", "firstName": "Ada", "lastName": "Admin", "role": "admin", "isApproved": true, "status": "approved"},
			{"_id": "u2", "email": "grace@example.com", "firstName": "Grace", "lastName": "Hopper", "role": "user", "isApproved": false},
		},
		pitches: []map[string]any{
			{"_id": "p1", "status": "pending", "pitchType": "Pitch to distribution", "packagePlan": "Pro",
				"releaseInfo": map[string]any{"title": "Midnight", "primaryArtist": "Grace"},
				"user":        map[string]any{"_id": "u2", "email": "grace@example.com", "firstName": "Grace"}},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/signin", api.signIn)
	mux.HandleFunc("POST /v1/auth/signup", api.signUp)
	mux.HandleFunc("POST /v1/auth/forgot-password", api.ack)
	mux.HandleFunc("POST /v1/auth/verify-otp", api.ack)
	mux.HandleFunc("POST /v1/auth/reset-password", api.ack)
	mux.HandleFunc("GET /v1/account/profile", api.authed(api.profile))
	mux.HandleFunc("GET /v1/account/users", api.authed(api.listUsers))
	mux.HandleFunc("POST /v1/account/users/approve/{id}", api.authed(api.approveUser))
	mux.HandleFunc("GET /v1/pitch/admin/all", api.authed(api.listPitches))
	mux.HandleFunc("PATCH /v1/pitch/admin/{id}/status", api.authed(api.updateStatus))
	mux.HandleFunc("POST /v1/pitch/new", api.authed(api.createPitch))

	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.apiKeys = append(api.apiKeys, r.Header.Get("x-api-key"))
		api.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Server.Close)
	return api
}

// BaseURL is the API root to configure clients with.
func (a *FakeAPI) BaseURL() string {
	return a.Server.URL + "/v1/"
}

// Uploads returns the recorded pitch submissions.
func (a *FakeAPI) Uploads() []Upload {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Upload(nil), a.uploads...)
}

// PitchStatus returns the stored status of a pitch.
func (a *FakeAPI) PitchStatus(id string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.pitches {
		if p["_id"] == id {
			s, _ := p["status"].(string)
			return s
		}
	}
	return ""
}

// RotateToken changes the token the server accepts, invalidating any token
// handed out before.
func (a *FakeAPI) RotateToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Token = token
}

func (a *FakeAPI) currentToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Token
}

// APIKeys returns the x-api-key header of every request received.
func (a *FakeAPI) APIKeys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.apiKeys...)
}

func (a *FakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+a.currentToken() {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid Token"})
			return
		}
		next(w, r)
	}
}

func (a *FakeAPI) signIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Email != a.Email || req.Password != a.Password {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": a.currentToken(), "userId": "u1"})
}

func (a *FakeAPI) signUp(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req["email"] == a.Email {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Email already exists"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": map[string]any{"id": "u-new"}})
}

func (a *FakeAPI) ack(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "ok"})
}

func (a *FakeAPI) profile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": map[string]any{
		"_id": "u1", "email": a.Email, "firstName": "Ada", "lastName": "Admin", "role": a.Role,
	}})
}

func (a *FakeAPI) listUsers(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": a.users, "totalUsers": len(a.users)})
}

func (a *FakeAPI) approveUser(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, u := range a.users {
		if u["_id"] == r.PathValue("id") {
			u["status"] = "approved"
			u["isApproved"] = true
			writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
}

func (a *FakeAPI) listPitches(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": a.pitches})
}

func (a *FakeAPI) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.pitches {
		if p["_id"] == r.PathValue("id") {
			p["status"] = req.Status
			writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "Pitch not found"})
}

func (a *FakeAPI) createPitch(w http.ResponseWriter, r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "expected multipart body"})
		return
	}
	upload := Upload{Fields: map[string]string{}, Files: map[string]string{}}
	reader := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
			return
		}
		data, _ := io.ReadAll(part)
		if part.FileName() != "" {
			upload.Files[part.FormName()] = part.FileName()
			continue
		}
		upload.Fields[part.FormName()] = string(data)
	}
	if strings.TrimSpace(upload.Fields["releaseInfo[title]"]) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Release title is required"})
		return
	}

	a.mu.Lock()
	a.uploads = append(a.uploads, upload)
	a.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "paymentLink": "https://pay.example/checkout/1"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
