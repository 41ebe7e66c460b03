package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xraph/lendbook/obligation"
)

// Obligation list filters accepted by GET /obligations?status=.
const (
	StatusAll     = "all"
	StatusPaid    = "paid"
	StatusUnpaid  = "unpaid"
	StatusOverdue = "overdue"
)

type markPaidRequest struct {
	WalletID string `json:"walletId"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.book.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var list []*obligation.Obligation
	switch status := q.Get("status"); status {
	case "", StatusAll:
		list = s.book.List(ctx)
	case StatusPaid:
		list = s.book.ListPaid(ctx)
	case StatusUnpaid:
		list = s.book.ListUnpaid(ctx)
	case StatusOverdue:
		list = s.book.ListOverdue(ctx)
	default:
		writeError(w, http.StatusBadRequest, "unknown status "+status)
		return
	}

	if person := q.Get("person"); person != "" {
		list = obligation.Filter(list, obligation.PersonContains(person))
	}
	if term := q.Get("q"); term != "" {
		list = obligation.Filter(list, obligation.Matches(term))
	}
	if list == nil {
		list = []*obligation.Obligation{}
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	o, ok := s.book.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "obligation not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var d obligation.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	o, err := s.book.Add(r.Context(), d, s.translator(r))
	if err != nil {
		s.logger.Warn("api: add obligation failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var p obligation.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	o, ok, err := s.book.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "obligation not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	var req markPaidRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	o, err := s.book.MarkAsPaid(r.Context(), chi.URLParam(r, "id"), req.WalletID, s.translator(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleMarkUnpaid(w http.ResponseWriter, r *http.Request) {
	o, ok := s.book.MarkAsUnpaid(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "obligation not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.book.Delete(r.Context(), chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "obligation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.book.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.book.Statistics(r.Context()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	list := s.book.Export(r.Context())
	if list == nil {
		list = []*obligation.Obligation{}
	}
	w.Header().Set("Content-Disposition", `attachment; filename="lendbook-export.json"`)
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var list []*obligation.Obligation
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	n := 0
	for _, o := range list {
		if o != nil {
			n++
		}
	}
	s.book.Import(r.Context(), list)
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}
