package gateway_test

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pitchclerk/internal/gateway"
	"pitchclerk/internal/services"
	"pitchclerk/internal/session"
)

func newSession(t *testing.T, token string) *session.Session {
	t.Helper()
	sess := session.New(session.NewMemoryStorage())
	if token != "" {
		if err := sess.SetToken(context.Background(), token); err != nil {
			t.Fatalf("SetToken: %v", err)
		}
		if err := sess.SetUser(context.Background(), &session.User{ID: "u1", Email: "ada@example.com"}); err != nil {
			t.Fatalf("SetUser: %v", err)
		}
	}
	return sess
}

func newClient(t *testing.T, baseURL string, tokens gateway.TokenSource, timeout time.Duration) *gateway.Client {
	t.Helper()
	client, err := gateway.New(gateway.Config{BaseURL: baseURL, APIKey: "key-123", Timeout: timeout}, tokens)
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	return client
}

func TestClientSendsStandardHeaders(t *testing.T) {
	var got http.Header
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"success","data":{"email":"ada@example.com"}}`)
	}))
	defer server.Close()

	client := newClient(t, server.URL+"/v1", newSession(t, "opaque-token"), time.Second)
	ctx := services.WithRequestID(context.Background(), "req-42")

	var out struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := client.Get(ctx, "account/profile", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "/v1/account/profile" {
		t.Fatalf("path = %q, want /v1/account/profile", gotPath)
	}
	if got.Get("x-api-key") != "key-123" {
		t.Fatalf("x-api-key = %q", got.Get("x-api-key"))
	}
	if got.Get("Authorization") != "Bearer opaque-token" {
		t.Fatalf("Authorization = %q", got.Get("Authorization"))
	}
	if got.Get("Accept") != "application/json" {
		t.Fatalf("Accept = %q", got.Get("Accept"))
	}
	if got.Get("X-Request-ID") != "req-42" {
		t.Fatalf("X-Request-ID = %q", got.Get("X-Request-ID"))
	}
	if out.Data.Email != "ada@example.com" {
		t.Fatalf("decoded email = %q", out.Data.Email)
	}
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	var auth string
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"email":"ada@example.com"`) {
			t.Errorf("unexpected body %s", body)
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	client := newClient(t, server.URL, newSession(t, ""), time.Second)
	payload := map[string]string{"email": "ada@example.com"}
	if err := client.Post(context.Background(), "/auth/signin", payload, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if auth != "" {
		t.Fatalf("expected no Authorization header, got %q", auth)
	}
	if requestID == "" {
		t.Fatal("expected a minted X-Request-ID")
	}
}

func TestClientClassifiesFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		want        error
		wantMessage string
		cleared     bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"jwt expired"}`, want: services.ErrAuth, wantMessage: "jwt expired", cleared: true},
		{name: "invalid token message", status: http.StatusBadRequest, body: `{"message":"Invalid Token"}`, want: services.ErrAuth, wantMessage: "Invalid Token", cleared: true},
		{name: "validation", status: http.StatusBadRequest, body: `{"status":"fail","message":"Email already exists"}`, want: services.ErrValidation, wantMessage: "Email already exists"},
		{name: "validation list", status: http.StatusUnprocessableEntity, body: `{"message":["email must be an email","password too short"]}`, want: services.ErrValidation, wantMessage: "email must be an email; password too short"},
		{name: "4xx without message", status: http.StatusNotFound, body: `not json`, want: services.ErrUnknown, wantMessage: "Not Found"},
		{name: "server error", status: http.StatusInternalServerError, body: `{"message":"boom"}`, want: services.ErrUnknown, wantMessage: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			sess := newSession(t, "opaque-token")
			client := newClient(t, server.URL, sess, time.Second)
			err := client.Get(context.Background(), "pitch/all", nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var apiErr *services.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *services.APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Fatalf("message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if cleared := !sess.Authenticated(context.Background()) && sess.User() == nil; cleared != tt.cleared {
				t.Fatalf("session cleared = %v, want %v", cleared, tt.cleared)
			}
		})
	}
}

func TestClientUndecodableSuccessIsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	}))
	defer server.Close()

	client := newClient(t, server.URL, nil, time.Second)
	var out map[string]any
	err := client.Get(context.Background(), "account/users", &out)
	if !errors.Is(err, services.ErrUnknown) {
		t.Fatalf("error = %v, want ErrUnknown", err)
	}
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := newClient(t, server.URL, nil, 20*time.Millisecond)
	err := client.Get(context.Background(), "pitch/all", nil)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if got := services.UserMessage(err, ""); !strings.Contains(got, "too long") {
		t.Fatalf("user message = %q", got)
	}
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := newClient(t, url, nil, time.Second)
	err := client.Post(context.Background(), "auth/signin", map[string]string{}, nil)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestClientPostMultipart(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	if err := os.WriteFile(cover, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write cover: %v", err)
	}

	fields := map[string]string{}
	files := map[string]string{}
	fileTypes := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("content type = %q (%v)", r.Header.Get("Content-Type"), err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Errorf("next part: %v", err)
				return
			}
			data, _ := io.ReadAll(part)
			if part.FileName() != "" {
				files[part.FormName()] = part.FileName() + ":" + string(data)
				fileTypes[part.FormName()] = part.Header.Get("Content-Type")
				continue
			}
			fields[part.FormName()] = string(data)
		}
		_, _ = io.WriteString(w, `{"status":"success","data":{"paymentLink":"https://pay.example/abc"}}`)
	}))
	defer server.Close()

	form := &gateway.Form{}
	form.Add("title", "Song")
	form.Add("pitchType", "Pitch to distribution")
	form.AddFile("coverImage", cover)
	form.Files = append(form.Files, gateway.File{
		Field:    "musicFile",
		Filename: "song.mp3",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("mp3-bytes")), nil
		},
	})

	client := newClient(t, server.URL, newSession(t, "opaque-token"), time.Second)
	var out struct {
		Data struct {
			PaymentLink string `json:"paymentLink"`
		} `json:"data"`
	}
	if err := client.PostMultipart(context.Background(), "pitch/new", form, &out); err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if out.Data.PaymentLink != "https://pay.example/abc" {
		t.Fatalf("payment link = %q", out.Data.PaymentLink)
	}
	if fields["title"] != "Song" || fields["pitchType"] != "Pitch to distribution" {
		t.Fatalf("fields = %v", fields)
	}
	if files["coverImage"] != "cover.png:png-bytes" || files["musicFile"] != "song.mp3:mp3-bytes" {
		t.Fatalf("files = %v", files)
	}
	if fileTypes["coverImage"] != "image/png" {
		t.Fatalf("cover content type = %q", fileTypes["coverImage"])
	}
}

func TestClientPostMultipartOpenFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	form := &gateway.Form{}
	form.AddFile("musicFile", filepath.Join(t.TempDir(), "missing.mp3"))

	client := newClient(t, server.URL, nil, time.Second)
	err := client.PostMultipart(context.Background(), "pitch/new", form, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if errors.Is(err, services.ErrTransport) {
		t.Fatalf("file failure reported as transport error: %v", err)
	}
	if msg := services.UserMessage(err, ""); !strings.Contains(msg, "missing.mp3") {
		t.Fatalf("user message = %q", msg)
	}
}

type failingReader struct {
	sent bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.sent {
		f.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("disk went away")
}

func TestClientPostMultipartReadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	form := &gateway.Form{}
	form.Files = append(form.Files, gateway.File{
		Field:    "musicFile",
		Filename: "song.mp3",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(&failingReader{}), nil
		},
	})

	client := newClient(t, server.URL, nil, time.Second)
	err := client.PostMultipart(context.Background(), "pitch/new", form, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// slowReader yields chunk bytes per read with a pause before each one.
type slowReader struct {
	remaining int
	chunk     int
	pause     time.Duration
}

func (s *slowReader) Read(p []byte) (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}
	time.Sleep(s.pause)
	n := min(s.chunk, s.remaining, len(p))
	for i := range n {
		p[i] = 'x'
	}
	s.remaining -= n
	return n, nil
}

func TestClientPostMultipartSlowUploadOutlivesTimeout(t *testing.T) {
	var received atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := io.Copy(io.Discard, r.Body)
		received.Store(n)
		_, _ = io.WriteString(w, `{"status":"success"}`)
	}))
	defer server.Close()

	// 200 KiB at 1 KiB every 5ms takes about a second, well past the timeout.
	form := &gateway.Form{}
	form.Files = append(form.Files, gateway.File{
		Field:    "musicFile",
		Filename: "song.mp3",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(&slowReader{remaining: 200 << 10, chunk: 1 << 10, pause: 5 * time.Millisecond}), nil
		},
	})

	client := newClient(t, server.URL, nil, 300*time.Millisecond)
	started := time.Now()
	if err := client.PostMultipart(context.Background(), "pitch/new", form, nil); err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if elapsed := time.Since(started); elapsed < 300*time.Millisecond {
		t.Fatalf("upload finished in %v, expected it to outlast the timeout", elapsed)
	}
	if got := received.Load(); got < 200<<10 {
		t.Fatalf("server received %d bytes", got)
	}
}

func TestClientPostMultipartResponseTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-release
	}))
	defer server.Close()
	defer close(release)

	form := &gateway.Form{}
	form.Add("title", "Song")

	client := newClient(t, server.URL, nil, 100*time.Millisecond)
	err := client.PostMultipart(context.Background(), "pitch/new", form, nil)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	if _, err := gateway.New(gateway.Config{BaseURL: "api/v1"}, nil); err == nil {
		t.Fatal("expected error for relative base url")
	}
	if _, err := gateway.New(gateway.Config{BaseURL: "https://api.example/v1", Timeout: -time.Second}, nil); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestFormLookup(t *testing.T) {
	form := &gateway.Form{}
	form.Add("territory", "Nigeria")
	form.AddFile("coverImage", "/tmp/cover.jpg")
	if v, ok := form.Value("territory"); !ok || v != "Nigeria" {
		t.Fatalf("Value(territory) = %q, %v", v, ok)
	}
	if _, ok := form.Value("missing"); ok {
		t.Fatal("expected missing field")
	}
	if !form.HasFile("coverImage") || form.HasFile("musicFile") {
		t.Fatal("HasFile mismatch")
	}
}
