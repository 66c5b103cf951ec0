package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fakeAdmin struct {
	mu    sync.Mutex
	users []AdminUser
}

func (f *fakeAdmin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Header.Get("apikey") != "service" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/auth/v1/admin/users":
		json.NewEncoder(w).Encode(listUsersResponse{Users: f.users})
	case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
		var req createUserRequest
		json.NewDecoder(r.Body).Decode(&req)
		u := AdminUser{ID: "id-" + req.Email, Email: req.Email}
		f.users = append(f.users, u)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(u)
	case r.Method == http.MethodDelete:
		f.users = nil
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestAdminClientEnsureUser(t *testing.T) {
	fake := &fakeAdmin{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := NewAdminClient(srv.URL, "service")
	ctx := context.Background()

	id, err := c.EnsureUser(ctx, "demo@example.com", "pw")
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	again, err := c.EnsureUser(ctx, "demo@example.com", "pw")
	if err != nil {
		t.Fatalf("EnsureUser() second call error = %v", err)
	}
	if id != again || len(fake.users) != 1 {
		t.Errorf("ids %q/%q with %d users, want one user reused", id, again, len(fake.users))
	}

	if err := c.DeleteUser(ctx, "demo@example.com"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if err := c.DeleteUser(ctx, "demo@example.com"); err != nil {
		t.Errorf("DeleteUser() of missing user error = %v", err)
	}
}

func TestAdminClientReportsStatus(t *testing.T) {
	srv := httptest.NewServer(&fakeAdmin{})
	defer srv.Close()

	_, err := NewAdminClient(srv.URL, "wrong").FindUserID(context.Background(), "x@example.com")
	if err == nil {
		t.Fatal("FindUserID() with bad key succeeded")
	}
}
