package handler

import "github.com/gin-gonic/gin"

// Handlers bundles every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth        *AuthHandler
	Catalog     *CatalogHandler
	Subjects    *SubjectHandler
	Instructors *InstructorHandler
	Students    *StudentHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Assignments *AssignmentHandler
	Export      *ExportHandler
	Import      *ImportHandler
}

// RegisterRoutes mounts the API. Login stays public; everything else runs behind secured.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, secured ...gin.HandlerFunc) {
	api.POST("/auth/login", h.Auth.Login)

	r := api.Group("", secured...)

	r.GET("/campuses", h.Catalog.ListCampuses)
	r.POST("/campuses", h.Catalog.CreateCampus)
	r.GET("/terms", h.Catalog.ListTerms)
	r.GET("/terms/active", h.Catalog.ActiveTerm)
	r.POST("/terms", h.Catalog.CreateTerm)
	r.PUT("/terms/:id/activate", h.Catalog.ActivateTerm)

	r.GET("/subjects", h.Subjects.List)
	r.GET("/subjects/stats", h.Subjects.Stats)
	r.GET("/subjects/:id", h.Subjects.Get)
	r.POST("/subjects", h.Subjects.Create)
	r.PUT("/subjects/:id", h.Subjects.Update)
	r.DELETE("/subjects/:id", h.Subjects.Delete)

	r.GET("/instructors", h.Instructors.List)
	r.GET("/instructors/:id", h.Instructors.Get)
	r.POST("/instructors", h.Instructors.Create)
	r.PUT("/instructors/:id", h.Instructors.Update)
	r.DELETE("/instructors/:id", h.Instructors.Delete)

	r.GET("/students", h.Students.List)
	r.GET("/students/:id", h.Students.Get)
	r.POST("/students", h.Students.Create)

	r.GET("/courses", h.Courses.List)
	r.POST("/courses", h.Courses.Create)
	r.GET("/subject-courses", h.Courses.ListLinks)

	r.GET("/enrollments", h.Enrollments.List)
	r.POST("/enrollments", h.Enrollments.Create)

	r.GET("/assignments", h.Assignments.List)
	r.GET("/assignments/overlaps", h.Assignments.Overlaps)
	r.POST("/assignments", h.Assignments.Create)
	r.PUT("/assignments/:id", h.Assignments.Update)
	r.DELETE("/assignments/:id", h.Assignments.Delete)
	r.GET("/schedule", h.Assignments.Schedule)

	r.GET("/export/schedule", h.Export.Schedule)
	r.POST("/import/:kind", h.Import.Import)
}
