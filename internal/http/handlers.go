package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"financas/internal/core"
	"financas/internal/export"
	applog "financas/internal/log"
)

// loginView holds data for the login page.
type loginView struct {
	Error string
}

// transactionFormView holds data for the add-transaction form.
type transactionFormView struct {
	Error string
	Today string
}

// dashboardView holds data for the dashboard page.
type dashboardView struct {
	Username     string
	Transactions []core.Transaction
	TotalIncome  float64
	TotalExpense float64
	Balance      float64
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Already authenticated callers go straight to the dashboard.
		if _, err := s.sessions.CurrentUser(r.Context(), sessionToken(r)); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		s.render(w, r, "login.html", loginView{})
	case http.MethodPost:
		s.handleLoginSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "login.html", loginView{Error: "Formato de requisição inválido"})
		return
	}

	username := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")

	user, err := s.creds.Verify(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUserNotFound):
			s.render(w, r, "login.html", loginView{Error: "Usuário não encontrado!"})
		case errors.Is(err, core.ErrInvalidPassword):
			s.render(w, r, "login.html", loginView{Error: "Senha incorreta!"})
		default:
			slog.ErrorContext(r.Context(), "Credential lookup error", applog.FieldError, err, applog.FieldUsername, username)
			w.WriteHeader(http.StatusInternalServerError)
			s.render(w, r, "login.html", loginView{Error: "Erro interno. Tente novamente."})
		}
		return
	}

	token, err := s.sessions.Authenticate(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Session creation error", applog.FieldError, err, applog.FieldUserID, user.ID)
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, r, "login.html", loginView{Error: "Erro interno. Tente novamente."})
		return
	}

	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Terminate(r.Context(), sessionToken(r)); err != nil {
		slog.ErrorContext(r.Context(), "Session termination error", applog.FieldError, err)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	transactions, err := s.ledger.ListTransactions(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", applog.FieldError, err, applog.FieldUserID, user.ID)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}

	view := dashboardView{
		Username:     user.Username,
		Transactions: transactions,
	}
	for _, t := range transactions {
		switch t.Type {
		case core.TypeIncome:
			view.TotalIncome += t.Value
		case core.TypeExpense:
			view.TotalExpense += t.Value
		}
	}
	view.Balance = view.TotalIncome - view.TotalExpense

	s.render(w, r, "dashboard.html", view)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "add_transaction.html", transactionFormView{Today: time.Now().Format("2006-01-02")})
	case http.MethodPost:
		s.handleAddTransactionSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAddTransactionSubmit(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "add_transaction.html", transactionFormView{Error: "Formato de requisição inválido"})
		return
	}

	value, err := core.ParseValue(r.Form.Get("value"))
	if err != nil {
		// Reject before any write happens
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "add_transaction.html", transactionFormView{
			Error: "Valor inválido!",
			Today: time.Now().Format("2006-01-02"),
		})
		return
	}

	date := strings.TrimSpace(r.Form.Get("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	transaction := core.Transaction{
		UserID:      user.ID,
		Type:        sanitizeInput(r.Form.Get("type")),
		Category:    sanitizeInput(r.Form.Get("category")),
		Value:       value,
		Description: sanitizeInput(r.Form.Get("description")),
		Date:        date,
	}

	if _, err := s.ledger.CreateTransaction(r.Context(), transaction); err != nil {
		slog.ErrorContext(r.Context(), "Create transaction error", applog.FieldError, err, applog.FieldUserID, user.ID)
		http.Error(w, "Erro ao salvar transação", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	transactions, err := s.ledger.ListTransactions(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", applog.FieldError, err, applog.FieldUserID, user.ID)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=`+export.Filename)
	_, _ = w.Write(export.CSV(transactions))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", applog.FieldError, err, "template", name)
	}
}
