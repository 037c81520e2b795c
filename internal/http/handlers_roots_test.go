package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/gatehouse/internal/data"
	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/domain/model"
	"github.com/target/gatehouse/internal/mocks"
	"github.com/target/gatehouse/internal/service"
	"go.uber.org/mock/gomock"
)

func newRootHandlers(t *testing.T) (*RootHandlers, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc, err := service.NewRootService(service.RootServiceOptions{Users: repo})
	require.NoError(t, err)
	return &RootHandlers{Svc: svc}, repo
}

// asCaller attaches a session for login, as RequireAuth would.
func asCaller(r *http.Request, login string) *http.Request {
	sess := &domainauth.Session{ID: "sess-" + login, UserID: login, Role: domainauth.RoleUser}
	return r.WithContext(ContextWithSession(r.Context(), sess))
}

func formPost(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func expectRootCaller(repo *mocks.MockUserRepository, login string) {
	repo.EXPECT().GetByLogin(gomock.Any(), login).
		Return(&model.User{Login: login, IsRoot: true, Active: true}, nil)
}

func TestRootHandlers_UnsetRoot_Success(t *testing.T) {
	h, repo := newRootHandlers(t)
	expectRootCaller(repo, "alice")
	repo.EXPECT().UnsetRootUnlessLast(gomock.Any(), "bob").Return(nil)

	w := httptest.NewRecorder()
	h.UnsetRoot(w, asCaller(formPost("/api/roots/unset_root", url.Values{"login": {"bob"}}), "alice"))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRootHandlers_UnsetRoot_LoginFromQuery(t *testing.T) {
	h, repo := newRootHandlers(t)
	expectRootCaller(repo, "alice")
	repo.EXPECT().UnsetRootUnlessLast(gomock.Any(), "bob").Return(nil)

	w := httptest.NewRecorder()
	h.UnsetRoot(w, asCaller(httptest.NewRequest(http.MethodPost, "/api/roots/unset_root?login=bob", nil), "alice"))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRootHandlers_UnsetRoot_LastRoot(t *testing.T) {
	h, repo := newRootHandlers(t)
	expectRootCaller(repo, "alice")
	repo.EXPECT().UnsetRootUnlessLast(gomock.Any(), "alice").Return(data.ErrLastRoot)

	w := httptest.NewRecorder()
	h.UnsetRoot(w, asCaller(formPost("/api/roots/unset_root", url.Values{"login": {"alice"}}), "alice"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation","message":"Last root can't be unset"}`, w.Body.String())
}

func TestRootHandlers_UnsetRoot_MissingLogin(t *testing.T) {
	h, repo := newRootHandlers(t)
	expectRootCaller(repo, "alice")

	w := httptest.NewRecorder()
	h.UnsetRoot(w, asCaller(formPost("/api/roots/unset_root", url.Values{"login": {"  "}}), "alice"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"login"`)
}

func TestRootHandlers_UnsetRoot_CallerNotRoot(t *testing.T) {
	h, repo := newRootHandlers(t)
	repo.EXPECT().GetByLogin(gomock.Any(), "mallory").
		Return(&model.User{Login: "mallory", Active: true}, nil)

	w := httptest.NewRecorder()
	h.UnsetRoot(w, asCaller(formPost("/api/roots/unset_root", url.Values{"login": {"alice"}}), "mallory"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"forbidden"`)
}

func TestRootHandlers_UnsetRoot_NoSession(t *testing.T) {
	h, _ := newRootHandlers(t)

	w := httptest.NewRecorder()
	h.UnsetRoot(w, formPost("/api/roots/unset_root", url.Values{"login": {"alice"}}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRootHandlers_UnsetRoot_RepositoryFailure(t *testing.T) {
	h, repo := newRootHandlers(t)
	expectRootCaller(repo, "alice")
	repo.EXPECT().UnsetRootUnlessLast(gomock.Any(), "bob").Return(context.DeadlineExceeded)

	w := httptest.NewRecorder()
	h.UnsetRoot(w, asCaller(formPost("/api/roots/unset_root", url.Values{"login": {"bob"}}), "alice"))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRootHandlers_SetRoot(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, repo := newRootHandlers(t)
		expectRootCaller(repo, "alice")
		repo.EXPECT().SetRoot(gomock.Any(), "bob").Return(nil)

		w := httptest.NewRecorder()
		h.SetRoot(w, asCaller(formPost("/api/roots/set_root", url.Values{"login": {"bob"}}), "alice"))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		h, repo := newRootHandlers(t)
		expectRootCaller(repo, "alice")
		repo.EXPECT().SetRoot(gomock.Any(), "ghost").Return(data.ErrUserNotFound)

		w := httptest.NewRecorder()
		h.SetRoot(w, asCaller(formPost("/api/roots/set_root", url.Values{"login": {"ghost"}}), "alice"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"not_found","message":"User with login 'ghost' not found"}`, w.Body.String())
	})
}

func TestRootHandlers_Search(t *testing.T) {
	h, repo := newRootHandlers(t)
	expectRootCaller(repo, "alice")
	repo.EXPECT().ListRoots(gomock.Any()).Return([]*model.User{
		{Login: "alice", Name: "Alice A", Email: "alice@example.com", IsRoot: true, Active: true},
		{Login: "bob", Name: "Bob B", Email: "bob@example.com", IsRoot: true, Active: true},
	}, nil)

	w := httptest.NewRecorder()
	h.Search(w, asCaller(httptest.NewRequest(http.MethodGet, "/api/roots/search", nil), "alice"))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Roots []map[string]any `json:"roots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Roots, 2)
	assert.Equal(t, map[string]any{"login": "alice", "name": "Alice A", "email": "alice@example.com"}, body.Roots[0])
	assert.Equal(t, "bob", body.Roots[1]["login"])
}

func TestRootHandlers_Search_EmptyIsArray(t *testing.T) {
	h, repo := newRootHandlers(t)
	expectRootCaller(repo, "alice")
	repo.EXPECT().ListRoots(gomock.Any()).Return(nil, nil)

	w := httptest.NewRecorder()
	h.Search(w, asCaller(httptest.NewRequest(http.MethodGet, "/api/roots/search", nil), "alice"))

	assert.JSONEq(t, `{"roots":[]}`, w.Body.String())
}
