package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danprat/ABSEN-DESA/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	attendanceHandler := handlers.NewAttendanceHandler(s.deps.Recognizer, s.deps.Attendance, s.deps.Store)
	employeesHandler := handlers.NewEmployeesHandler(s.deps.Store, s.deps.Audit)
	facesHandler := handlers.NewFacesHandler(s.deps.Store, s.deps.Recognizer, s.deps.Audit, s.deps.UploadDir)
	holidaysHandler := handlers.NewHolidaysHandler(s.deps.Store, s.deps.Syncer)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Kiosk
		r.Post("/attendance/recognize", attendanceHandler.Recognize)
		r.Get("/attendance/today", attendanceHandler.Today)
		r.Post("/attendance/sweep", attendanceHandler.Sweep)
		r.Get("/schedule/today", attendanceHandler.ScheduleToday)

		// Employees and enrollment
		r.Get("/employees", employeesHandler.List)
		r.Post("/employees", employeesHandler.Create)
		r.Get("/employees/{id}", employeesHandler.Get)
		r.Get("/employees/{id}/face", facesHandler.List)
		r.Post("/employees/{id}/face", facesHandler.Enroll)
		r.Delete("/employees/{id}/face/{embeddingID}", facesHandler.Delete)

		// Matching cache diagnostics
		r.Get("/recognition/cache", facesHandler.CacheStatus)
		r.Post("/recognition/refresh", facesHandler.RefreshCache)

		// Holidays
		r.Get("/holidays", holidaysHandler.List)
		r.Post("/holidays", holidaysHandler.Create)
		r.Put("/holidays/{date}/exclude", holidaysHandler.Exclude)
		r.Post("/holidays/sync", holidaysHandler.Sync)
	})

	// Enrollment photos
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.deps.UploadDir)))
	s.router.Get("/uploads/*", uploads.ServeHTTP)
}
