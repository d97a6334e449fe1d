// Package stub is an in-memory double of the backend collaborator. It
// speaks the same wire format as the real API and backs local
// development and gateway integration tests. It is not a persistence
// layer: restarting it loses everything.
package stub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/filter"
	"github.com/safina-app/safina/internal/gateway"
	"github.com/safina-app/safina/internal/project"
	"github.com/safina-app/safina/internal/report"
	"github.com/safina-app/safina/internal/team"
)

type Server struct {
	mu       sync.Mutex
	expenses map[string]expense.Request
	order    []string
	projects map[string]project.Project
	members  map[string]team.Member
	seq      map[string]int // next request number per project id
}

func New() *Server {
	return &Server{
		expenses: make(map[string]expense.Request),
		projects: make(map[string]project.Project),
		members:  make(map[string]team.Member),
		seq:      make(map[string]int),
	}
}

// Handler builds the chi router exposing the wire API under /api.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.listExpenses)
			r.Post("/", s.createExpense)
			r.Get("/export", s.exportCSV)
			r.Patch("/{id}/status", s.updateStatus)
			r.Put("/{id}/comment", s.updateInternalComment)
			r.Get("/{id}/document", s.exportDocument)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.listProjects)
			r.Post("/", s.createProject)
			r.Delete("/{id}", s.deleteProject)
		})

		r.Route("/team", func(r chi.Router) {
			r.Get("/", s.listTeam)
			r.Post("/", s.createTeamMember)
			r.Delete("/{id}", s.deleteTeamMember)
		})
	})

	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project")
	status := r.URL.Query().Get("status")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]gateway.ExpenseDTO, 0, len(s.order))

	for _, id := range s.order {
		e := s.expenses[id]

		if projectID != "" && e.ProjectID != projectID {
			continue
		}

		if status != "" && string(e.Status) != status {
			continue
		}

		out = append(out, gateway.ExpenseToDTO(e))
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req gateway.CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Purpose) == "" || len(req.Items) == 0 {
		http.Error(w, "purpose and items are required", http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proj, ok := s.projects[req.ProjectID]
	if !ok {
		http.Error(w, "unknown project", http.StatusNotFound)
		return
	}

	items := make([]expense.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = expense.Item{
			Name:     it.Name,
			Quantity: it.Quantity,
			Amount:   it.Amount,
			Currency: expense.Currency(it.Currency),
		}
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	e := expense.Request{
		ID:          uuid.NewString(),
		Code:        s.nextCode(proj),
		Purpose:     req.Purpose,
		Items:       items,
		Currency:    items[0].Currency,
		Status:      expense.StatusRequest,
		ProjectID:   proj.ID,
		ProjectName: proj.Name,
		ProjectCode: proj.Code,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}
	e.TotalAmount = e.ItemsTotal()

	s.expenses[e.ID] = e
	s.order = append(s.order, e.ID)

	writeJSON(w, http.StatusCreated, gateway.ExpenseToDTO(e))
}

// nextCode mints the human-readable project-prefixed sequential code.
// Callers hold s.mu.
func (s *Server) nextCode(p project.Project) string {
	s.seq[p.ID]++
	return fmt.Sprintf("%s-%03d", p.Code, s.seq[p.ID])
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req gateway.StatusUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	target, err := expense.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	// The stub mirrors the backend's transition rules so a client that
	// skips local validation still gets honest answers. Repeating the
	// current status is accepted to keep the commit idempotent.
	if e.Status != target {
		if err := expense.Authorize(e.Status, target, req.Comment); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	e.Status = target
	if expense.AnnotationRequired(target) {
		e.StatusComment = strings.TrimSpace(req.Comment)
	} else {
		e.StatusComment = ""
	}

	e.TotalAmount = e.ItemsTotal()
	s.expenses[id] = e

	writeJSON(w, http.StatusOK, gateway.ExpenseToDTO(e))
}

func (s *Server) updateInternalComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req gateway.InternalCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	e.InternalComment = req.InternalComment
	s.expenses[id] = e

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := filter.Filter{
		Project: q.Get("project"),
		Scope:   filter.ScopeAll,
	}

	if v := q.Get("from_date"); v != "" {
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			f.From = &t
		}
	}

	if v := q.Get("to_date"); v != "" {
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			f.To = &t
		}
	}

	opts := report.CSVOptions{AllStatuses: q.Get("all_statuses") == "true"}

	s.mu.Lock()
	list := make([]expense.Request, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.expenses[id])
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		"expenses_"+time.Now().Format("20060102")+".csv"))

	if err := report.WriteExpensesCSV(w, f.Apply(list), opts); err != nil {
		slog.Error("failed to write csv export", "error", err)
	}
}

func (s *Server) exportDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	e, ok := s.expenses[id]
	s.mu.Unlock()

	if !ok {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "expense_"+e.Code+".pdf"))

	if err := report.WriteExpenseDocument(w, e); err != nil {
		slog.Error("failed to render expense document", "error", err)
	}
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]gateway.ProjectDTO, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, gateway.ProjectToDTO(p))
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req gateway.CreateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		http.Error(w, "name and code are required", http.StatusUnprocessableEntity)
		return
	}

	p := project.Project{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Code:      strings.ToUpper(req.Code),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.projects[p.ID] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, gateway.ProjectToDTO(p))
}

// deleteProject is a hard delete; historical requests keep their
// denormalized project name and code.
func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	delete(s.projects, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTeam(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]gateway.TeamMemberDTO, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, gateway.TeamMemberToDTO(m))
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTeamMember(w http.ResponseWriter, r *http.Request) {
	var req gateway.CreateTeamMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.LastName) == "" || strings.TrimSpace(req.Login) == "" {
		http.Error(w, "last name and login are required", http.StatusUnprocessableEntity)
		return
	}

	m := team.Member{
		ID:         uuid.NewString(),
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		Position:   req.Position,
		ProjectIDs: req.ProjectIDs,
		Login:      req.Login,
		Status:     team.StatusActive,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.members[m.ID] = m

	for _, pid := range m.ProjectIDs {
		if p, ok := s.projects[pid]; ok {
			p.Members = append(p.Members, project.MemberSummary{
				ID:        m.ID,
				LastName:  m.LastName,
				FirstName: m.FirstName,
				Position:  m.Position,
			})
			s.projects[pid] = p
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, gateway.TeamMemberToDTO(m))
}

// deleteTeamMember removes the member but not their authored requests.
func (s *Server) deleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	delete(s.members, id)

	for pid, p := range s.projects {
		kept := p.Members[:0]
		for _, m := range p.Members {
			if m.ID != id {
				kept = append(kept, m)
			}
		}

		p.Members = kept
		s.projects[pid] = p
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
