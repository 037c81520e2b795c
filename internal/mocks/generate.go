// Package mocks provides gomock mocks for the gatehouse repository ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockUserRepository(ctrl)
//	users.EXPECT().UnsetRootUnlessLast(gomock.Any(), "bob").Return(nil)
package mocks

// Generate mocks for UserRepository and UserTokenRepository from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/target/gatehouse/internal/ports UserRepository,UserTokenRepository
