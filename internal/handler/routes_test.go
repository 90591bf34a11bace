package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

func buildRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	guard := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
	RegisterRoutes(api, Handlers{
		Auth:        NewAuthHandler(&authServiceMock{}),
		Catalog:     NewCatalogHandler(&catalogServiceMock{active: &models.Term{ID: 1, Active: true}}),
		Subjects:    NewSubjectHandler(&subjectServiceMock{}),
		Instructors: NewInstructorHandler(&instructorServiceMock{}),
		Students:    NewStudentHandler(&studentServiceMock{}),
		Courses:     NewCourseHandler(&courseServiceMock{}),
		Enrollments: NewEnrollmentHandler(&enrollmentServiceMock{}),
		Assignments: NewAssignmentHandler(&assignmentServiceMock{report: &models.OverlapReport{Conflicts: []models.Conflict{}}}),
		Export:      NewExportHandler(&exportServiceMock{}),
		Import:      NewImportHandler(&importServiceMock{}, 0),
	}, guard)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutesGuardEverythingButLogin(t *testing.T) {
	router := buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subjects", nil)
	assert.Equal(t, http.StatusUnauthorized, performRequest(router, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", jsonBody(t, map[string]string{"password": "secret"}))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, performRequest(router, req).Code)
}

func TestRoutesStaticSegmentsWinOverIDs(t *testing.T) {
	router := buildRouter()

	for _, path := range []string{"/api/v1/subjects/stats", "/api/v1/terms/active", "/api/v1/assignments/overlaps?term_id=1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer x")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code, path)
	}
}
