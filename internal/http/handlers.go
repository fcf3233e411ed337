package http

import (
	"encoding/json"
	"net/http"
	"time"

	"finances/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether templates and the ledger are usable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"templates": "ok", "ledger": "ok"}
	status, code := "ready", http.StatusOK

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	if s.ledger == nil {
		checks["ledger"] = "failed: no ledger"
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if bad := RequireMethod(r, http.MethodGet, http.MethodHead); bad != nil {
		bad.Write(w)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := indexView{
		Balance: newBalanceView(s.ledger.Balance(), s.formatter),
		Rows:    rowsView(s.ledger.Transactions(), s.formatter),
		Today:   time.Now().Format("2006-01-02"),
	}
	html, err := s.render("index.html", data)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err.Error(), log.FieldOperation, log.OpRender)
		InternalServerError("Could not render page").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(html).Write(w)
}

// handleBalancePartial returns the balance cards fragment.
func (s *Server) handleBalancePartial(w http.ResponseWriter, r *http.Request) {
	s.writePartial(w, r, "balance", newBalanceView(s.ledger.Balance(), s.formatter))
}

// handleTransactionsPartial returns the table rows fragment.
func (s *Server) handleTransactionsPartial(w http.ResponseWriter, r *http.Request) {
	s.writePartial(w, r, "transactions", rowsView(s.ledger.Transactions(), s.formatter))
}

func (s *Server) writePartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}
	html, err := s.render(name, data)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Partial template execution failed",
			log.FieldError, err.Error(), "template", name)
		InternalServerError("Could not render fragment").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(html).Write(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
