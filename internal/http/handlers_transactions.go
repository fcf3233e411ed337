package http

import (
	"errors"
	"html/template"
	"net/http"

	"finances/internal/core"
	"finances/internal/log"
)

// handleCreateTransaction validates the form and appends the transaction.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if bad := RequirePOST(r); bad != nil {
		bad.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	tx, position, err := s.ledger.Submit(r.Context(), parser.FormInput())
	if err != nil {
		if verr, ok := core.AsValidationError(err); ok {
			UnprocessableEntityError(verr.Message()).Write(w)
			return
		}
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).ErrorContext(r.Context(), "Transaction submit failed",
			log.FieldError, err.Error(), log.FieldOperation, log.OpSubmit)
		InternalServerError("Could not save the transaction").Write(w)
		return
	}

	amount := s.formatter.FormatMoney(tx.Amount)
	NewHTMXResponse().
		TriggerLedgerChanged(log.OpAdd, position+1).
		TriggerFormReset().
		TriggerSuccessNotification("Added " + tx.Description).
		BodyHTML(`<div class="success">Added: ` + template.HTMLEscapeString(tx.Description) +
			` (` + template.HTMLEscapeString(amount) + `)</div>`).
		Write(w)
}

// handleRemoveTransaction deletes the row at {position}. htmx sends DELETE;
// POST is accepted for plain forms.
func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	if bad := RequireDeleteOrPOST(r); bad != nil {
		bad.Write(w)
		return
	}

	position, err := ParsePosition(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := s.ledger.Remove(r.Context(), position); err != nil {
		if errors.Is(err, core.ErrOutOfRange) {
			ConflictError("That transaction no longer exists, the list was refreshed").Write(w)
			return
		}
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).ErrorContext(r.Context(), "Transaction remove failed",
			log.FieldError, err.Error(), log.FieldPosition, position)
		InternalServerError("Could not remove the transaction").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerLedgerChanged(log.OpRemove, s.ledger.Len()).
		TriggerSuccessNotification("Transaction removed").
		Write(w)
}

// handleAPITransactions lists the ledger (GET) or adds to it (POST).
func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		writeJSON(w, http.StatusOK, newLedgerJSON(s.ledger.Transactions(), s.ledger.Balance(), s.formatter))
	case http.MethodPost:
		s.apiCreateTransaction(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) apiCreateTransaction(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "invalid request body"})
		return
	}

	tx, position, err := s.ledger.Submit(r.Context(), parser.FormInput())
	if err != nil {
		if verr, ok := core.AsValidationError(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, errorJSON{
				Error:  verr.Message(),
				Reason: string(verr.Reason),
				Field:  verr.Field,
			})
			return
		}
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).ErrorContext(r.Context(), "API submit failed",
			log.FieldError, err.Error(), log.FieldOperation, log.OpSubmit)
		writeJSON(w, http.StatusInternalServerError, errorJSON{Error: "could not save the transaction"})
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionJSON(position, tx, s.formatter))
}

func (s *Server) handleAPIRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	position, err := ParsePosition(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: err.Error()})
		return
	}

	if err := s.ledger.Remove(r.Context(), position); err != nil {
		if errors.Is(err, core.ErrOutOfRange) {
			writeJSON(w, http.StatusConflict, errorJSON{Error: err.Error()})
			return
		}
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).ErrorContext(r.Context(), "API remove failed",
			log.FieldError, err.Error(), log.FieldPosition, position)
		writeJSON(w, http.StatusInternalServerError, errorJSON{Error: "could not remove the transaction"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
