package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/services"
	"github.com/lucasmn/memorly/internal/testutil/mocks"
)

func TestUserMiddleware_NoIdentificationAnswers401(t *testing.T) {
	srv := &Server{UserService: services.NewUserService(new(mocks.MockUserRepository))}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/streak", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestUserMiddleware_MalformedIDAnswers400(t *testing.T) {
	srv := &Server{UserService: services.NewUserService(new(mocks.MockUserRepository))}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/streak", nil)
	req.Header.Set(userHeaderName, "not-a-number")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserMiddleware_ResolvesHeaderUser(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	practiceRepo := new(mocks.MockPracticeRepository)
	srv := &Server{
		UserService:     services.NewUserService(userRepo),
		ProgressService: services.NewProgressService(practiceRepo, new(mocks.MockSnapshotRepository)),
	}

	userRepo.On("Get", mock.Anything, int64(7)).Return(&models.User{ID: 7, Email: "a@b.c"}, nil)
	practiceRepo.On("ListForUser", mock.Anything, int64(7)).Return([]models.Practice{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/streak", nil)
	req.Header.Set(userHeaderName, "7")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	practiceRepo.AssertExpectations(t)
}

func TestUserMiddleware_ResolvesCookieUser(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	practiceRepo := new(mocks.MockPracticeRepository)
	srv := &Server{
		UserService:     services.NewUserService(userRepo),
		ProgressService: services.NewProgressService(practiceRepo, new(mocks.MockSnapshotRepository)),
	}

	userRepo.On("Get", mock.Anything, int64(7)).Return(&models.User{ID: 7, Email: "a@b.c"}, nil)
	practiceRepo.On("ListForUser", mock.Anything, int64(7)).Return([]models.Practice{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/streak", nil)
	req.AddCookie(&http.Cookie{Name: userCookieName, Value: "7"})
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
