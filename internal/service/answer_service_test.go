package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/byteask-api/internal/domain/entity"
	"github.com/yourusername/byteask-api/internal/domain/repository"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
)

// MockAnswerRepo реализует repository.AnswerRepository
type MockAnswerRepo struct {
	mock.Mock
}

func (m *MockAnswerRepo) Create(answer *entity.Answer) error {
	args := m.Called(answer)
	return args.Error(0)
}

func (m *MockAnswerRepo) ListByQuestion(questionID uint) ([]repository.AnswerWithAuthor, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AnswerWithAuthor), args.Error(1)
}

func TestAnswerService_Add_Success(t *testing.T) {
	mockAnswerRepo := new(MockAnswerRepo)
	mockQuestionRepo := new(MockQuestionRepo)

	mockQuestionRepo.On("GetByID", uint(5)).Return(&entity.Question{ID: 5}, nil)
	mockAnswerRepo.On("Create", mock.AnythingOfType("*entity.Answer")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Answer).ID = 50
		}).
		Return(nil)

	svc, err := NewAnswerService(mockAnswerRepo, mockQuestionRepo)
	require.NoError(t, err)

	answer, err := svc.Add(1, 5, "  Use channels for that.  ")

	require.NoError(t, err)
	assert.Equal(t, uint(50), answer.ID)
	assert.Equal(t, uint(5), answer.QuestionID)
	assert.Equal(t, uint(1), answer.AuthorID)
	assert.Equal(t, "Use channels for that.", answer.Content, "Содержимое должно быть обрезано")
	mockAnswerRepo.AssertExpectations(t)
}

func TestAnswerService_Add_EmptyContent(t *testing.T) {
	mockAnswerRepo := new(MockAnswerRepo)
	mockQuestionRepo := new(MockQuestionRepo)

	svc, err := NewAnswerService(mockAnswerRepo, mockQuestionRepo)
	require.NoError(t, err)

	_, err = svc.Add(1, 5, "   ")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mockQuestionRepo.AssertNotCalled(t, "GetByID", mock.Anything)
	mockAnswerRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAnswerService_Add_QuestionNotFound(t *testing.T) {
	mockAnswerRepo := new(MockAnswerRepo)
	mockQuestionRepo := new(MockQuestionRepo)

	mockQuestionRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	svc, err := NewAnswerService(mockAnswerRepo, mockQuestionRepo)
	require.NoError(t, err)

	_, err = svc.Add(1, 99, "An answer to nothing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Ответ на несуществующий вопрос должен отклоняться")
	mockAnswerRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAnswerService_ListByQuestion(t *testing.T) {
	mockAnswerRepo := new(MockAnswerRepo)
	mockQuestionRepo := new(MockQuestionRepo)

	expected := []repository.AnswerWithAuthor{
		{Answer: entity.Answer{ID: 1, QuestionID: 5, Content: "First"}, AuthorName: "Alice", AuthorEmail: "alice@example.com"},
		{Answer: entity.Answer{ID: 2, QuestionID: 5, Content: "Second"}, AuthorName: "Bob", AuthorEmail: "bob@example.com"},
	}
	mockAnswerRepo.On("ListByQuestion", uint(5)).Return(expected, nil)

	svc, err := NewAnswerService(mockAnswerRepo, mockQuestionRepo)
	require.NoError(t, err)

	answers, err := svc.ListByQuestion(5)

	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "Alice", answers[0].AuthorName, "Имя автора должно приходить вместе с ответом")
}
