package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/byteask-api/internal/config"
	"github.com/yourusername/byteask-api/internal/domain/entity"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
)

// createTestGoogleService создает GoogleOAuthService без внешнего HTTP-обмена:
// тестируется слой сопоставления профиля с локальным пользователем
func createTestGoogleService(userRepo *MockUserRepo, mergePolicy string) *GoogleOAuthService {
	return &GoogleOAuthService{
		userRepo:    userRepo,
		mergePolicy: mergePolicy,
	}
}

func TestGoogleOAuth_ResolveOrCreate_ExistingLinkedUser(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	googleID := "google-sub-1"
	linked := &entity.User{ID: 1, Email: "alice@example.com", GoogleID: &googleID}
	mockUserRepo.On("GetByGoogleID", "google-sub-1").Return(linked, nil)

	svc := createTestGoogleService(mockUserRepo, config.MergeLenient)

	user, err := svc.resolveOrCreate(&GoogleProfile{ID: "google-sub-1", Email: "alice@example.com", Name: "Alice"})

	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID, "Привязанный пользователь находится по google id")
	// Поиск по email не нужен, если привязка уже записана
	mockUserRepo.AssertNotCalled(t, "GetByEmail", mock.Anything)
}

func TestGoogleOAuth_ResolveOrCreate_NewUser(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByGoogleID", "google-sub-2").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.User).ID = 10
		}).
		Return(nil)

	svc := createTestGoogleService(mockUserRepo, config.MergeLenient)

	user, err := svc.resolveOrCreate(&GoogleProfile{ID: "google-sub-2", Email: "new@example.com", Name: "New User"})

	require.NoError(t, err, "Новый email должен приводить к созданию пользователя")
	assert.Equal(t, uint(10), user.ID)
	assert.Equal(t, "New User", user.Name)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-2", *user.GoogleID)
	assert.False(t, user.HasPassword(), "OAuth-пользователь создается без локального пароля")
	mockUserRepo.AssertExpectations(t)
}

func TestGoogleOAuth_MergeExisting_LenientBackfillsGoogleID(t *testing.T) {
	// Политика lenient: существующий аккаунт с тем же email
	// аутентифицируется, привязка дозаписывается
	mockUserRepo := new(MockUserRepo)
	existing := &entity.User{ID: 3, Email: "alice@example.com", Password: "$2a$10$hash"}
	mockUserRepo.On("SetGoogleID", uint(3), "google-sub-3").Return(nil)

	svc := createTestGoogleService(mockUserRepo, config.MergeLenient)

	user, err := svc.mergeExisting(existing, &GoogleProfile{ID: "google-sub-3", Email: "alice@example.com"})

	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-3", *user.GoogleID)
	mockUserRepo.AssertExpectations(t)
}

func TestGoogleOAuth_MergeExisting_StrictRefusesUnlinkedAccount(t *testing.T) {
	// Политика strict: без ранее записанной привязки вход запрещен
	mockUserRepo := new(MockUserRepo)
	existing := &entity.User{ID: 3, Email: "alice@example.com", Password: "$2a$10$hash"}

	svc := createTestGoogleService(mockUserRepo, config.MergeStrict)

	_, err := svc.mergeExisting(existing, &GoogleProfile{ID: "google-sub-3", Email: "alice@example.com"})

	assert.ErrorIs(t, err, ErrGoogleLinkRequired)
	mockUserRepo.AssertNotCalled(t, "SetGoogleID", mock.Anything, mock.Anything)
}

func TestGoogleOAuth_MergeExisting_ConflictOnForeignGoogleID(t *testing.T) {
	// Email занят аккаунтом, привязанным к другому google id
	mockUserRepo := new(MockUserRepo)
	otherID := "google-sub-other"
	existing := &entity.User{ID: 3, Email: "alice@example.com", GoogleID: &otherID}

	svc := createTestGoogleService(mockUserRepo, config.MergeLenient)

	_, err := svc.mergeExisting(existing, &GoogleProfile{ID: "google-sub-3", Email: "alice@example.com"})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGoogleOAuth_MergeExisting_SameGoogleIDIsIdempotent(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	sameID := "google-sub-3"
	existing := &entity.User{ID: 3, Email: "alice@example.com", GoogleID: &sameID}

	svc := createTestGoogleService(mockUserRepo, config.MergeStrict)

	user, err := svc.mergeExisting(existing, &GoogleProfile{ID: "google-sub-3", Email: "alice@example.com"})

	require.NoError(t, err, "Повторный вход с той же привязкой должен проходить при любой политике")
	assert.Equal(t, uint(3), user.ID)
	mockUserRepo.AssertNotCalled(t, "SetGoogleID", mock.Anything, mock.Anything)
}

func TestGoogleOAuth_ResolveOrCreate_CreateRaceFallsBackToMerge(t *testing.T) {
	// Гонка: между проверкой email и вставкой кто-то зарегистрировался локально.
	// Уникальный индекс вернул конфликт, разрешаем против победившей записи.
	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByGoogleID", "google-sub-4").Return(nil, apperrors.ErrNotFound)

	winner := &entity.User{ID: 20, Email: "race@example.com", Password: "$2a$10$hash"}
	mockUserRepo.On("GetByEmail", "race@example.com").
		Return(nil, apperrors.ErrNotFound).Once()
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Return(fmt.Errorf("%w: duplicate key", apperrors.ErrConflict))
	mockUserRepo.On("GetByEmail", "race@example.com").
		Return(winner, nil).Once()
	mockUserRepo.On("SetGoogleID", uint(20), "google-sub-4").Return(nil)

	svc := createTestGoogleService(mockUserRepo, config.MergeLenient)

	user, err := svc.resolveOrCreate(&GoogleProfile{ID: "google-sub-4", Email: "race@example.com", Name: "Race"})

	require.NoError(t, err)
	assert.Equal(t, uint(20), user.ID, "Должна вернуться запись, победившая в гонке")
	mockUserRepo.AssertExpectations(t)
}
