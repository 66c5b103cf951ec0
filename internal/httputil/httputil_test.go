package httputil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studynotes/internal/domain/models"
)

func TestRespondErrorProblemDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusBadGateway, "upload failed", map[string]interface{}{"operation": "upload"})

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["title"] != "Bad Gateway" || body["detail"] != "upload failed" || body["operation"] != "upload" {
		t.Errorf("body = %v", body)
	}
	if body["status"] != float64(http.StatusBadGateway) {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestOptionalString(t *testing.T) {
	var req struct {
		ParentID OptionalString `json:"parent_id"`
	}

	tests := []struct {
		body        string
		wantPresent bool
		wantValue   *string
	}{
		{`{}`, false, nil},
		{`{"parent_id": null}`, true, nil},
		{`{"parent_id": "f1"}`, true, strPtr("f1")},
	}
	for _, tt := range tests {
		req.ParentID = OptionalString{}
		if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
			t.Fatalf("%s: %v", tt.body, err)
		}
		if req.ParentID.Present != tt.wantPresent {
			t.Errorf("%s: present = %v", tt.body, req.ParentID.Present)
		}
		if (req.ParentID.Value == nil) != (tt.wantValue == nil) ||
			(tt.wantValue != nil && *req.ParentID.Value != *tt.wantValue) {
			t.Errorf("%s: value = %v", tt.body, req.ParentID.Value)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestParseJSONRejectsUnknownFields(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	if err := ParseJSON(httptest.NewRecorder(), r, &dest); err == nil {
		t.Error("expected unknown field error")
	}
}

func TestUserContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(r) != nil || GetUserID(r) != "" {
		t.Fatal("anonymous request has a user")
	}
	r = WithUser(r, &models.User{UID: "u1"})
	if GetUserID(r) != "u1" {
		t.Errorf("GetUserID = %q", GetUserID(r))
	}
	if GetSession(r) != nil {
		t.Error("unexpected session")
	}
}

func TestFormUploadsAndJSON(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("removed", `[{"name":"old.txt","url":"https://b/old.txt"}]`)
	fw, _ := mw.CreateFormFile("files", "cell.txt")
	fw.Write([]byte("mitochondria"))
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	if err := ParseMultipart(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("ParseMultipart: %v", err)
	}

	uploads, closeAll, err := FormUploads(r, "files")
	if err != nil {
		t.Fatalf("FormUploads: %v", err)
	}
	defer closeAll()
	if len(uploads) != 1 || uploads[0].Name != "cell.txt" || uploads[0].Size != int64(len("mitochondria")) {
		t.Errorf("uploads = %+v", uploads)
	}

	var removed []struct {
		Name string `json:"name"`
	}
	if err := FormJSON(r, "removed", &removed); err != nil {
		t.Fatalf("FormJSON: %v", err)
	}
	if len(removed) != 1 || removed[0].Name != "old.txt" {
		t.Errorf("removed = %+v", removed)
	}

	var untouched []string
	if err := FormJSON(r, "existing", &untouched); err != nil || untouched != nil {
		t.Errorf("missing field: %v %v", untouched, err)
	}
}
