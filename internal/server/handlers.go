package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/report"
	"github.com/leapstack-labs/regaudit/pkg/source"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

const xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rules":  s.Catalog().Count(),
	})
}

type categoryResponse struct {
	Name  string           `json:"name"`
	Rules []audit.RuleInfo `json:"rules"`
}

type rulesResponse struct {
	Categories []categoryResponse `json:"categories"`
	Count      int                `json:"count"`
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	var resp rulesResponse
	for _, c := range s.Catalog().Categories() {
		cr := categoryResponse{Name: c.Name}
		for _, def := range c.Rules {
			cr.Rules = append(cr.Rules, def.Info())
		}
		resp.Count += len(cr.Rules)
		resp.Categories = append(resp.Categories, cr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	def, ok := s.Catalog().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("rule %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, def.Info())
}

// handleAudit audits the table in the request body and returns the report
// document. Query parameters: format (csv|xlsx, else taken from
// Content-Type), sheet, name, and repeatable category and rule.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, delimiter := uploadFormat(r)
	if format == "" {
		writeError(w, http.StatusUnsupportedMediaType,
			errors.New("unknown upload format: pass ?format=csv|xlsx or a matching Content-Type"))
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	loaded, err := source.Load(r.Context(), source.Spec{
		Format:    format,
		Sheet:     q.Get("sheet"),
		Delimiter: delimiter,
		Reader:    body,
	}, s.logger)
	if err != nil {
		writeError(w, loadStatus(err), err)
		return
	}

	rules, err := s.Catalog().Bind(loaded.Table, s.ruleConfig)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	sel := audit.Selection{Categories: q["category"], RuleIDs: q["rule"]}
	if err := sel.Validate(rules); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	runs := audit.NewEngine(audit.EngineConfig{Logger: s.logger}).RunSelected(rules, sel)
	name := q.Get("name")
	if name == "" {
		name = "upload." + format
	}
	doc := report.NewDocument(name, runs, audit.Aggregate(runs))
	s.logger.Info("audit served", "name", name, "rules", doc.Summary.Rules, "problems", doc.Summary.Problems)
	writeJSON(w, http.StatusOK, doc)
}

// uploadFormat resolves the body format from ?format or Content-Type.
func uploadFormat(r *http.Request) (string, rune) {
	switch r.URL.Query().Get("format") {
	case "xlsx":
		return "xlsx", 0
	case "csv":
		return "csv", 0
	case "tsv":
		return "csv", '\t'
	case "":
	default:
		return "", 0
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return "", 0
	}
	switch mediaType {
	case xlsxMediaType:
		return "xlsx", 0
	case "text/csv":
		return "csv", 0
	case "text/tab-separated-values":
		return "csv", '\t'
	}
	return "", 0
}

func loadStatus(err error) int {
	var tooLarge *http.MaxBytesError
	var unknown *source.UnknownFormatError
	var dup *table.DuplicateColumnError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unknown):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &dup), errors.Is(err, table.ErrTooManyColumns):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// handleEvents streams server-sent events, currently only catalog reloads.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			_, _ = fmt.Fprintf(w, "event: %s\ndata: {\"rules\":%d}\n\n", ev, s.Catalog().Count())
			flusher.Flush()
		}
	}
}
