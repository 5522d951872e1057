package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/viswa-prakash/estatebot/internal/agent"
	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/frontend"
)

// ExampleQuery pre-fills the question box.
const ExampleQuery = "I’m considering a $600,000 home in Austin. How have Austin property prices changed in the last 2 years? If I put 15% down at 5% interest for 30 years, what’s my monthly payment?"

const maxQueryBytes = 16 * 1024

// Runner answers one query.
type Runner interface {
	Run(ctx context.Context, query string) (*agent.Run, error)
}

type askRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category"`
	RunID    string `json:"run_id,omitempty"`
}

type pageData struct {
	Query   string
	Heading string
	Answer  *frontend.Answer
	Error   string
}

var page = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ReAct Agent for Home Search and Loan Calculations</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; min-height: 8rem; }
.answer { white-space: pre-wrap; border-left: 4px solid #7d56f4; padding: .5rem 1rem; }
.error { color: #b00020; }
</style>
</head>
<body>
<h1>ReAct Agent for Home Search and Loan Calculations</h1>
<form method="post" action="/ask">
<label for="query">Enter your query here:</label>
<textarea id="query" name="query">{{.Query}}</textarea>
<button type="submit">Ask Agent</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{with .Answer}}
<h2>{{$.Heading}}</h2>
<div class="answer">{{.Text}}</div>
{{end}}
</body>
</html>
`))

// Handler serves the question form and the ask endpoint.
type Handler struct {
	runner Runner
	marker string
	mux    *http.ServeMux
}

func NewHandler(runner Runner, marker string) *Handler {
	h := &Handler{runner: runner, marker: marker, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /{$}", h.handleIndex)
	h.mux.HandleFunc("POST /ask", h.handleAsk)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, pageData{Query: ExampleQuery})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBytes)
	jsonMode := isJSON(r)

	query, err := readQuery(r, jsonMode)
	if err != nil {
		h.fail(w, jsonMode, "", nil, estateErrors.InvalidInput(err.Error()))
		return
	}

	run, err := h.runner.Run(r.Context(), query)
	if err != nil {
		runID := ""
		if run != nil {
			runID = run.ID
		}
		slog.Error("Ask failed", "run_id", runID, "error", err, "category", estateErrors.Category(err))
		h.fail(w, jsonMode, query, run, err)
		return
	}

	answer := frontend.Present(run, h.marker)
	if jsonMode {
		writeJSON(w, http.StatusOK, answer)
		return
	}
	h.renderPage(w, http.StatusOK, pageData{Query: query, Heading: frontend.Heading, Answer: &answer})
}

func (h *Handler) fail(w http.ResponseWriter, jsonMode bool, query string, run *agent.Run, err error) {
	status := statusFor(err)
	if jsonMode {
		resp := errorResponse{Error: err.Error(), Category: estateErrors.Category(err)}
		if run != nil {
			resp.RunID = run.ID
		}
		writeJSON(w, status, resp)
		return
	}
	h.renderPage(w, status, pageData{Query: query, Error: err.Error()})
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		slog.Error("Render page failed", "error", err)
	}
}

func readQuery(r *http.Request, jsonMode bool) (string, error) {
	var query string
	if jsonMode {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", errors.New("request body must be a JSON object with a query field")
		}
		query = req.Query
	} else {
		if err := r.ParseForm(); err != nil {
			return "", errors.New("cannot parse form")
		}
		query = r.PostFormValue("query")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("query is empty")
	}
	return query, nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, estateErrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, estateErrors.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.Is(err, estateErrors.ErrTransient):
		return http.StatusServiceUnavailable
	case errors.Is(err, estateErrors.ErrUpstream), errors.Is(err, estateErrors.ErrInvalidModelOutput):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}
