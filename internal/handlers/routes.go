package handlers

import "github.com/go-chi/chi/v5"

func (s *TaskHandler) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.ListTasks) // GET /tasks
		r.Post("/", s.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", s.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", s.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})
}
