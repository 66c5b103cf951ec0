package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
	"studynotes/internal/domain/services"
	"studynotes/internal/middleware"
	"studynotes/internal/repository/memory"
	"studynotes/internal/service/assistant"
	"studynotes/internal/service/study"
	"studynotes/internal/service/workspace"
	"studynotes/internal/testutil"
)

const blobBase = "http://files.test/blobs/"

// tokenVerifier accepts "tok-<uid>".
type tokenVerifier struct{}

func (tokenVerifier) VerifyToken(_ context.Context, token string) (*models.User, error) {
	uid, ok := strings.CutPrefix(token, "tok-")
	if !ok || uid == "" {
		return nil, &domain.UnauthorizedError{Message: "bad token"}
	}
	return &models.User{UID: uid, Email: uid + "@example.com"}, nil
}

func (tokenVerifier) Close() error { return nil }

type recordingCompleter struct {
	prompt string
	image  *services.Image
}

func (c *recordingCompleter) Complete(_ context.Context, prompt string, image *services.Image) (string, error) {
	c.prompt = prompt
	c.image = image
	return "Sure.", nil
}

type testServer struct {
	handler   http.Handler
	store     *memory.Store
	blobs     *memory.BlobStore
	registry  *workspace.Registry
	completer *recordingCompleter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := testutil.DiscardLogger()
	store := memory.NewStore(
		memory.WithClock(testutil.FixedStart()),
		memory.WithIDGenerator(testutil.NewStubIDGenerator("doc")),
	)
	blobs := memory.NewBlobStore(blobBase)
	registry := workspace.NewRegistry(context.Background(), func() *workspace.Session {
		return workspace.NewSession(store.Folders(), store.Notes(), store.Plans(), blobs, logger)
	}, logger)
	t.Cleanup(registry.Close)

	completer := &recordingCompleter{}
	assistantSvc, err := assistant.NewService(completer, logger)
	if err != nil {
		t.Fatalf("assistant.NewService: %v", err)
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, &Handlers{
		Workspace: NewWorkspaceHandler(registry, nil, logger),
		Folder:    NewFolderHandler(logger),
		Note:      NewNoteHandler(NewMarkdownRenderer(), logger),
		Plan: NewPlanHandler(func() time.Time {
			return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		}, logger),
		Quiz:      NewQuizHandler(study.NewQuiz(rand.New(rand.NewSource(7))), logger),
		Assistant: NewAssistantHandler(assistantSvc, logger),
		Blob:      NewBlobHandler(blobs),
	})

	var h http.Handler = mux
	h = middleware.SessionMiddleware(registry, logger)(h)
	h = middleware.AuthMiddleware(tokenVerifier{}, logger)(h)
	h = middleware.Recovery(logger)(h)

	return &testServer{
		handler:   h,
		store:     store,
		blobs:     blobs,
		registry:  registry,
		completer: completer,
	}
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(method, target, rdr)
	r.Header.Set("Authorization", "Bearer tok-u1")
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, r)
	return rec
}

func (ts *testServer) multipart(t *testing.T, method, target string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()

	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Authorization", "Bearer tok-u1")
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
