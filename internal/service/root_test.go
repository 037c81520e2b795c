package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/gatehouse/internal/data"
	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/domain/model"
	apperrors "github.com/target/gatehouse/internal/errors"
	"github.com/target/gatehouse/internal/metrics"
	"github.com/target/gatehouse/internal/mocks"
	authmocks "github.com/target/gatehouse/internal/mocks/auth"
	"go.uber.org/mock/gomock"
)

func session(login string) *domainauth.Session {
	return &domainauth.Session{ID: "sess-" + login, UserID: login, Role: domainauth.RoleUser}
}

func rootUser(login string) *model.User {
	return &model.User{Login: login, IsRoot: true, Active: true}
}

func newRootService(t *testing.T) (*RootService, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	svc, err := NewRootService(RootServiceOptions{Users: users})
	require.NoError(t, err)
	return svc, users
}

func TestNewRootService_RequiresRepository(t *testing.T) {
	_, err := NewRootService(RootServiceOptions{})
	require.Error(t, err)
}

func TestRootService_CheckIsRoot(t *testing.T) {
	tests := []struct {
		name    string
		caller  *domainauth.Session
		setup   func(users *mocks.MockUserRepository)
		wantErr func(error) bool
	}{
		{
			name:    "no session",
			caller:  nil,
			wantErr: apperrors.IsUnauthorized,
		},
		{
			name:   "unknown caller",
			caller: session("mallory"),
			setup: func(users *mocks.MockUserRepository) {
				users.EXPECT().GetByLogin(gomock.Any(), "mallory").Return(nil, data.ErrUserNotFound)
			},
			wantErr: apperrors.IsForbidden,
		},
		{
			name:   "caller is not root",
			caller: session("bob"),
			setup: func(users *mocks.MockUserRepository) {
				users.EXPECT().GetByLogin(gomock.Any(), "bob").Return(&model.User{Login: "bob", Active: true}, nil)
			},
			wantErr: apperrors.IsForbidden,
		},
		{
			name:   "caller root but inactive",
			caller: session("old"),
			setup: func(users *mocks.MockUserRepository) {
				users.EXPECT().GetByLogin(gomock.Any(), "old").Return(&model.User{Login: "old", IsRoot: true}, nil)
			},
			wantErr: apperrors.IsForbidden,
		},
		{
			name:   "caller is root",
			caller: session("alice"),
			setup: func(users *mocks.MockUserRepository) {
				users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(rootUser("alice"), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users := newRootService(t)
			if tt.setup != nil {
				tt.setup(users)
			}

			u, err := svc.CheckIsRoot(context.Background(), tt.caller)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.caller.Login(), u.Login)
				return
			}
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error %v", err)
		})
	}
}

func TestRootService_CheckIsRoot_StoreError(t *testing.T) {
	svc, users := newRootService(t)
	boom := errors.New("connection reset")
	users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(nil, boom)

	_, err := svc.CheckIsRoot(context.Background(), session("alice"))

	assert.ErrorIs(t, err, boom)
	assert.False(t, apperrors.IsForbidden(err))
}

func TestRootService_UnsetRoot_DemotesWhenAnotherRootRemains(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	m := metrics.New()
	svc, err := NewRootService(RootServiceOptions{Users: users, Metrics: m})
	require.NoError(t, err)

	gomock.InOrder(
		users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(rootUser("alice"), nil),
		users.EXPECT().UnsetRootUnlessLast(gomock.Any(), "bob").Return(nil),
	)

	require.NoError(t, svc.UnsetRoot(context.Background(), session("alice"), "bob"))
	assert.Contains(t, gatherText(t, m), `gatehouse_root_flag_changes_total{action="unset"} 1`)
}

func TestRootService_UnsetRoot_RejectsLastRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	m := metrics.New()
	svc, err := NewRootService(RootServiceOptions{Users: users, Metrics: m})
	require.NoError(t, err)

	users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(rootUser("alice"), nil)
	users.EXPECT().UnsetRootUnlessLast(gomock.Any(), "alice").Return(data.ErrLastRoot)

	err = svc.UnsetRoot(context.Background(), session("alice"), "alice")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, MsgLastRoot, apperrors.GetMessage(err))
	assert.Contains(t, gatherText(t, m), "gatehouse_root_demotions_rejected_total 1")
}

func TestRootService_UnsetRoot_NonRootCallerChangesNothing(t *testing.T) {
	svc, users := newRootService(t)
	users.EXPECT().GetByLogin(gomock.Any(), "carol").Return(&model.User{Login: "carol", Active: true}, nil)
	// No UnsetRootUnlessLast expectation: gomock fails the test if it is called.

	err := svc.UnsetRoot(context.Background(), session("carol"), "bob")

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestRootService_UnsetRoot_BlankLogin(t *testing.T) {
	for _, login := range []string{"", "   "} {
		svc, users := newRootService(t)
		users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(rootUser("alice"), nil)

		err := svc.UnsetRoot(context.Background(), session("alice"), login)

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "login", apperrors.GetField(err))
	}
}

func TestRootService_UnsetRoot_StoreErrorIsNotValidation(t *testing.T) {
	svc, users := newRootService(t)
	users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(rootUser("alice"), nil)
	users.EXPECT().UnsetRootUnlessLast(gomock.Any(), "bob").Return(context.DeadlineExceeded)

	err := svc.UnsetRoot(context.Background(), session("alice"), "bob")

	assert.True(t, apperrors.IsTimeout(err))
}

func TestRootService_SetRoot(t *testing.T) {
	t.Run("promotes", func(t *testing.T) {
		svc, users := newRootService(t)
		users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(rootUser("alice"), nil)
		users.EXPECT().SetRoot(gomock.Any(), "bob").Return(nil)

		require.NoError(t, svc.SetRoot(context.Background(), session("alice"), " bob "))
	})

	t.Run("unknown login", func(t *testing.T) {
		svc, users := newRootService(t)
		users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(rootUser("alice"), nil)
		users.EXPECT().SetRoot(gomock.Any(), "ghost").Return(data.ErrUserNotFound)

		err := svc.SetRoot(context.Background(), session("alice"), "ghost")

		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, "User with login 'ghost' not found", apperrors.GetMessage(err))
	})

	t.Run("non-root caller", func(t *testing.T) {
		svc, users := newRootService(t)
		users.EXPECT().GetByLogin(gomock.Any(), "bob").Return(&model.User{Login: "bob", Active: true}, nil)

		assert.True(t, apperrors.IsForbidden(svc.SetRoot(context.Background(), session("bob"), "bob")))
	})
}

func TestRootService_SearchRoots(t *testing.T) {
	svc, users := newRootService(t)
	roots := []*model.User{rootUser("alice"), rootUser("bob")}
	users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(rootUser("alice"), nil)
	users.EXPECT().ListRoots(gomock.Any()).Return(roots, nil)

	got, err := svc.SearchRoots(context.Background(), session("alice"))

	require.NoError(t, err)
	assert.Equal(t, roots, got)
}

func TestRootService_OperatorPathsSkipSessionCheck(t *testing.T) {
	svc, users := newRootService(t)
	users.EXPECT().SetRoot(gomock.Any(), "bob").Return(nil)
	users.EXPECT().UnsetRootUnlessLast(gomock.Any(), "alice").Return(data.ErrLastRoot)

	require.NoError(t, svc.SetRootAsOperator(context.Background(), "cli", "bob"))
	assert.True(t, apperrors.IsValidation(svc.UnsetRootAsOperator(context.Background(), "cli", "alice")))
}

// Two roots demoting each other at once: exactly one succeeds and one root remains.
func TestRootService_ConcurrentDemotionsKeepOneRoot(t *testing.T) {
	users := authmocks.NewMemoryUserRepository()
	users.Put(model.User{Login: "alice", IsRoot: true, Active: true})
	users.Put(model.User{Login: "bob", IsRoot: true, Active: true})
	svc, err := NewRootService(RootServiceOptions{Users: users})
	require.NoError(t, err)

	errs := make(chan error, 2)
	go func() { errs <- svc.UnsetRoot(context.Background(), session("alice"), "bob") }()
	go func() { errs <- svc.UnsetRoot(context.Background(), session("bob"), "alice") }()

	var failures int
	for range 2 {
		if e := <-errs; e != nil {
			failures++
			assert.True(t, apperrors.IsValidation(e) || apperrors.IsForbidden(e), "unexpected error %v", e)
		}
	}
	assert.Equal(t, 1, failures)

	roots, err := users.ListRoots(context.Background())
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

func gatherText(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
