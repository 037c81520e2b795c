package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/gatehouse/internal/data"
	"github.com/target/gatehouse/internal/domain/model"
	apperrors "github.com/target/gatehouse/internal/errors"
	"github.com/target/gatehouse/internal/mocks"
	"go.uber.org/mock/gomock"
)

func newUserTokenService(t *testing.T) (*UserTokenService, *mocks.MockUserTokenRepository) {
	t.Helper()
	tokens := mocks.NewMockUserTokenRepository(gomock.NewController(t))
	svc, err := NewUserTokenService(UserTokenServiceOptions{
		Tokens: tokens,
		Rand:   bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)),
	})
	require.NoError(t, err)
	return svc, tokens
}

func TestUserTokenService_Generate_StoresOnlyHash(t *testing.T) {
	svc, tokens := newUserTokenService(t)
	want := "abababababababababababababababababababab"

	var stored *model.UserToken
	tokens.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tok *model.UserToken) error {
		stored = tok
		return nil
	})

	got, err := svc.Generate(context.Background(), session("alice"), "  ci  ")

	require.NoError(t, err)
	assert.Equal(t, &model.GeneratedUserToken{Login: "alice", Name: "ci", Token: want}, got)
	assert.Len(t, got.Token, 40)
	require.NotNil(t, stored)
	assert.Equal(t, "alice", stored.Login)
	assert.Equal(t, "ci", stored.Name)
	assert.Equal(t, HashToken(want), stored.TokenHash)
	assert.NotContains(t, stored.TokenHash, want)
}

func TestUserTokenService_Generate_DuplicateNameConflicts(t *testing.T) {
	svc, tokens := newUserTokenService(t)
	tokens.EXPECT().Create(gomock.Any(), gomock.Any()).Return(data.ErrUserTokenExists)

	_, err := svc.Generate(context.Background(), session("alice"), "ci")

	assert.True(t, apperrors.IsConflict(err))
}

func TestUserTokenService_Validation(t *testing.T) {
	svc, _ := newUserTokenService(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, nil, "ci")
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = svc.Generate(ctx, session("alice"), " ")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "name", apperrors.GetField(err))

	assert.True(t, apperrors.IsValidation(svc.Revoke(ctx, session("alice"), "")))

	_, err = svc.Search(ctx, nil)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestUserTokenService_Generate_RandFailure(t *testing.T) {
	tokens := mocks.NewMockUserTokenRepository(gomock.NewController(t))
	svc, err := NewUserTokenService(UserTokenServiceOptions{Tokens: tokens, Rand: bytes.NewReader(nil)})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), session("alice"), "ci")
	require.Error(t, err)
}

func TestUserTokenService_Revoke_UnknownNameSucceeds(t *testing.T) {
	svc, tokens := newUserTokenService(t)
	tokens.EXPECT().DeleteByName(gomock.Any(), "alice", "gone").Return(false, nil)

	require.NoError(t, svc.Revoke(context.Background(), session("alice"), "gone"))
}

func TestUserTokenService_Search(t *testing.T) {
	svc, tokens := newUserTokenService(t)
	list := []*model.UserToken{{Login: "alice", Name: "ci"}}
	tokens.EXPECT().ListByLogin(gomock.Any(), "alice").Return(list, nil)

	got, err := svc.Search(context.Background(), session("alice"))

	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestUserTokenService_StoreErrorsPropagate(t *testing.T) {
	svc, tokens := newUserTokenService(t)
	boom := errors.New("boom")
	tokens.EXPECT().DeleteByName(gomock.Any(), "alice", "ci").Return(false, boom)

	assert.ErrorIs(t, svc.Revoke(context.Background(), session("alice"), "ci"), boom)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashToken(""),
	)
	assert.NotEqual(t, HashToken("a"), HashToken("b"))
}
