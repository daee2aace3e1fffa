package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/byteask-api/internal/domain/entity"
	"github.com/yourusername/byteask-api/internal/domain/repository"
	"github.com/yourusername/byteask-api/internal/middleware"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
	"github.com/yourusername/byteask-api/internal/service"
	"github.com/yourusername/byteask-api/pkg/auth"
)

// fakeQuestionRepo отдает заранее заданные вопросы или ошибку
type fakeQuestionRepo struct {
	questions map[uint]*entity.Question
	err       error
}

func (r *fakeQuestionRepo) Create(question *entity.Question) error {
	if r.err != nil {
		return r.err
	}
	question.ID = uint(len(r.questions) + 1)
	return nil
}

func (r *fakeQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	if r.err != nil {
		return nil, r.err
	}
	q, ok := r.questions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return q, nil
}

func (r *fakeQuestionRepo) GetLatest(limit int) ([]entity.Question, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []entity.Question{}, nil
}

func (r *fakeQuestionRepo) List(limit, offset int) ([]entity.Question, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	return []entity.Question{}, 0, nil
}

// fakeAnswerRepo отдает заранее заданные ответы или ошибку
type fakeAnswerRepo struct {
	err error
}

func (r *fakeAnswerRepo) Create(answer *entity.Answer) error {
	if r.err != nil {
		return r.err
	}
	answer.ID = 1
	return nil
}

func (r *fakeAnswerRepo) ListByQuestion(questionID uint) ([]repository.AnswerWithAuthor, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []repository.AnswerWithAuthor{}, nil
}

// setupFeedRouter собирает маршруты вопросов и ответов поверх фейковых
// репозиториев и возвращает валидный bearer-токен
func setupFeedRouter(t *testing.T, questionRepo *fakeQuestionRepo, answerRepo *fakeAnswerRepo) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := newFakeUserRepo()
	user := &entity.User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, userRepo.Create(user))

	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	token, err := jwtService.GenerateToken(user.ID)
	require.NoError(t, err)

	questionService, err := service.NewQuestionService(questionRepo, userRepo, nil)
	require.NoError(t, err)
	answerService, err := service.NewAnswerService(answerRepo, questionRepo)
	require.NoError(t, err)

	questionHandler := NewQuestionHandler(questionService)
	answerHandler := NewAnswerHandler(answerService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.New()
	questions := router.Group("/api/questions")
	{
		questions.GET("/latest", questionHandler.Latest)
		questions.GET("/all", questionHandler.List)
		questions.GET("/:id", questionHandler.GetByID)
		questions.POST("/create", authMiddleware.RequireAuth(), questionHandler.Create)
	}
	answers := router.Group("/api/answers")
	{
		answers.GET("/:questionId", answerHandler.ListByQuestion)
		answers.POST("/add", authMiddleware.RequireAuth(), answerHandler.Add)
	}
	return router, token
}

func TestQuestionRoutes_ErrorBodies(t *testing.T) {
	questionRepo := &fakeQuestionRepo{questions: map[uint]*entity.Question{}}
	router, _ := setupFeedRouter(t, questionRepo, &fakeAnswerRepo{})

	// Нечисловой id
	w := doJSON(router, http.MethodGet, "/api/questions/abc", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid question ID"}`, w.Body.String())

	// Несуществующий вопрос
	w = doJSON(router, http.MethodGet, "/api/questions/42", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Question not found"}`, w.Body.String())
}

func TestQuestionRoutes_StoreFailureBody(t *testing.T) {
	questionRepo := &fakeQuestionRepo{err: errors.New("connection refused")}
	router, _ := setupFeedRouter(t, questionRepo, &fakeAnswerRepo{})

	w := doJSON(router, http.MethodGet, "/api/questions/latest", "", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	// Детали ошибки хранилища не должны утекать наружу
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/api/questions/all", "", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestAnswerRoutes_ErrorBodies(t *testing.T) {
	questionRepo := &fakeQuestionRepo{questions: map[uint]*entity.Question{
		5: {ID: 5, Title: "Known question"},
	}}
	router, token := setupFeedRouter(t, questionRepo, &fakeAnswerRepo{})

	// Отсутствующий questionId
	w := doJSON(router, http.MethodPost, "/api/answers/add", `{"content":"hello"}`, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Question ID and content are required."}`, w.Body.String())

	// Пустой content
	w = doJSON(router, http.MethodPost, "/api/answers/add", `{"questionId":5,"content":"  "}`, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Question ID and content are required."}`, w.Body.String())

	// Ответ на несуществующий вопрос
	w = doJSON(router, http.MethodPost, "/api/answers/add", `{"questionId":99,"content":"hello"}`, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Question not found"}`, w.Body.String())

	// Нечисловой questionId в листинге
	w = doJSON(router, http.MethodGet, "/api/answers/abc", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid question ID"}`, w.Body.String())
}

func TestAnswerRoutes_StoreFailureBody(t *testing.T) {
	questionRepo := &fakeQuestionRepo{questions: map[uint]*entity.Question{}}
	router, _ := setupFeedRouter(t, questionRepo, &fakeAnswerRepo{err: errors.New("connection refused")})

	w := doJSON(router, http.MethodGet, "/api/answers/5", "", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error."}`, w.Body.String())
}
