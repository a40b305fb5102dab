// ABOUTME: HTTP surface of the dev stub backend: every endpoint the client's gateway calls.
// ABOUTME: chi router, JSON in/out, per-session state in the Store, push events over /ws.
package agentd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

// maxUploadBytes caps dataset uploads at 32 MB.
const maxUploadBytes = 32 << 20

// Server is the stub backend. It speaks the same wire protocol as the real
// agent service so the client can be developed and tested against it.
type Server struct {
	store *Store
	agent *agent
}

// Option configures a Server.
type Option func(*Server)

// WithAgentDelay sets the pause between the agent's status update and its
// real response. Tests use zero; interactive runs use something visible.
func WithAgentDelay(d time.Duration) Option {
	return func(s *Server) { s.agent.delay = d }
}

// NewServer creates a stub backend with an empty session store.
func NewServer(opts ...Option) *Server {
	s := &Server{store: NewStore()}
	s.agent = &agent{store: s.store, delay: 300 * time.Millisecond}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/uploadfile/", s.handleUpload)
	r.Post("/chat", s.handleChat)
	r.Get("/ws", s.handleWS)
	r.Post("/mappings/confirm", s.handleConfirmMappings)
	r.Post("/preprocess/stats", s.handlePreprocessStats)
	r.Post("/preprocess/null_imputation", s.handleNullImputation)
	r.Get("/merge/available/{sessionID}", s.handleMergeAvailable)
	r.Post("/merge/preview", s.handleMergePreview)
	r.Post("/merge/execute", s.handleMergeExecute)
	r.Get("/analysis/suggestions/{sessionID}/{phaseID}", s.handleAnalysisSuggestions)
	r.Post("/analysis/statistics", s.handleAnalysisStatistics)
	r.Get("/playground/{sessionID}/{phaseID}/info", s.handlePlaygroundInfo)
	r.Post("/playground/data", s.handlePlaygroundData)
	r.Post("/playground/export", s.handlePlaygroundExport)
	r.Post("/soil/area", s.handleSoilArea)
	return r
}

// writeJSON serializes a 200 response.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("agentd: write response: %v", err)
	}
}

// writeError serializes a {status: error, message} envelope with code 200;
// the protocol reports semantic failures in-band.
func writeError(w http.ResponseWriter, message string) {
	writeJSON(w, map[string]string{"status": "error", "message": message})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, workflow.Dataset{Error: "bad multipart form: " + err.Error()})
		return
	}
	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		writeJSON(w, workflow.Dataset{Error: "missing session_id"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, workflow.Dataset{Error: "missing file field"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, workflow.Dataset{Error: "read upload: " + err.Error()})
		return
	}
	rows, err := parseCSV(data)
	if err != nil {
		writeJSON(w, workflow.Dataset{Error: err.Error()})
		return
	}

	f := s.store.AddFile(sessionID, header.Filename, rows, int64(len(data)/1024))
	writeJSON(w, workflow.Dataset{
		ID:          f.ID,
		Filename:    f.Name,
		ContentType: header.Header.Get("Content-Type"),
		SizeKB:      f.SizeKB,
		Data:        f.Rows,
		SampleData:  sampleRows(f.Rows, 10),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message    string          `json:"message"`
		SessionID  string          `json:"session_id"`
		Context    *workflow.Phase `json:"context"`
		ActiveView workflow.View   `json:"active_view"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, "bad request body: "+err.Error())
		return
	}
	if req.SessionID == "" {
		writeError(w, "missing session_id")
		return
	}
	go s.agent.handleChat(req.SessionID, req.Message, req.Context, req.ActiveView)
	writeJSON(w, map[string]string{"status": "success"})
}

func (s *Server) handleConfirmMappings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID     string            `json:"session_id"`
		SourcePhaseID string            `json:"source_phase_id"`
		Mappings      map[string]string `json:"mappings"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, "bad request body: "+err.Error())
		return
	}
	for col, role := range req.Mappings {
		if !workflow.ValidRole(role) {
			writeError(w, fmt.Sprintf("unknown role %q for column %q", role, col))
			return
		}
	}
	if !s.store.SetMappings(req.SessionID, req.SourcePhaseID, req.Mappings) {
		writeError(w, "unknown file "+req.SourcePhaseID)
		return
	}
	writeJSON(w, map[string]string{"status": "success", "message": "mappings confirmed"})
}

func (s *Server) handlePreprocessStats(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID     string            `json:"session_id"`
		SourcePhaseID string            `json:"source_phase_id"`
		FilePath      string            `json:"file_path"`
		Mappings      map[string]string `json:"mappings"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, "bad request body: "+err.Error())
		return
	}
	f, ok := s.store.File(req.SessionID, req.SourcePhaseID)
	if !ok {
		writeJSON(w, gateway.PreprocessStats{Error: "unknown file " + req.SourcePhaseID})
		return
	}
	writeJSON(w, preprocessStats(f))
}

func (s *Server) handleNullImputation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID     string  `json:"session_id"`
		SourcePhaseID string  `json:"source_phase_id"`
		Action        string  `json:"action"`
		Threshold     float64 `json:"threshold"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, "bad request body: "+err.Error())
		return
	}
	f, ok := s.store.File(req.SessionID, req.SourcePhaseID)
	if !ok {
		writeJSON(w, gateway.ImputationResult{Error: "unknown file " + req.SourcePhaseID})
		return
	}
	switch req.Action {
	case gateway.ActionContinueWithoutImputation, gateway.ActionRemoveNullColumns:
	default:
		writeJSON(w, gateway.ImputationResult{Error: "unknown action " + req.Action})
		return
	}
	threshold := req.Threshold
	if threshold == 0 {
		threshold = gateway.DefaultNullThreshold
	}

	processed, summary := imputeNulls(f, req.Action, threshold)
	if req.Action == gateway.ActionRemoveNullColumns {
		s.store.ReplaceRows(req.SessionID, req.SourcePhaseID, processed)
		f, _ = s.store.File(req.SessionID, req.SourcePhaseID)
	}
	writeJSON(w, gateway.ImputationResult{
		SampleData:        sampleRows(processed, 10),
		ProcessingSummary: summary,
		UpdatedStats:      preprocessStats(f),
	})
}

func (s *Server) handleMergeAvailable(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	files := s.store.Files(sessionID)
	out := make([]gateway.MergeFile, 0, len(files))
	for _, f := range files {
		out = append(out, gateway.MergeFile{
			ID:               f.ID,
			Name:             f.Name,
			Columns:          f.Columns,
			TotalColumns:     len(f.Columns),
			IsMerged:         f.IsMerged,
			HasProcessedData: f.Processed,
		})
	}
	writeJSON(w, struct {
		Status         string             `json:"status"`
		AvailableFiles []gateway.MergeFile `json:"available_files"`
	}{Status: "success", AvailableFiles: out})
}

// mergeBody is the shared wire body for preview and execute.
type mergeBody struct {
	SessionID             string            `json:"session_id"`
	FileIDs               []string          `json:"file_ids"`
	Strategy              string            `json:"merge_strategy"`
	JoinColumns           map[string]string `json:"join_columns"`
	PreserveOriginalNames bool              `json:"preserve_original_names"`
}

// resolveMerge decodes a merge body and runs the merge.
func (s *Server) resolveMerge(r *http.Request) ([]workflow.Row, *mergeBody, error) {
	var req mergeBody
	if err := decode(r, &req); err != nil {
		return nil, nil, fmt.Errorf("bad request body: %w", err)
	}
	files := make([]*File, 0, len(req.FileIDs))
	for _, id := range req.FileIDs {
		f, ok := s.store.File(req.SessionID, id)
		if !ok {
			return nil, nil, fmt.Errorf("unknown file %s", id)
		}
		files = append(files, f)
	}
	rows, err := mergeFiles(files, req.Strategy, req.JoinColumns, req.PreserveOriginalNames)
	if err != nil {
		return nil, nil, err
	}
	return rows, &req, nil
}

func (s *Server) handleMergePreview(w http.ResponseWriter, r *http.Request) {
	rows, _, err := s.resolveMerge(r)
	if err != nil {
		writeError(w, err.Error())
		return
	}
	cols := columnsOf(rows)
	writeJSON(w, struct {
		Status  string                `json:"status"`
		Preview gateway.MergePreview `json:"preview"`
	}{
		Status: "success",
		Preview: gateway.MergePreview{
			Columns:      cols,
			SampleData:   sampleRows(rows, 10),
			TotalRows:    len(rows),
			TotalColumns: len(cols),
		},
	})
}

func (s *Server) handleMergeExecute(w http.ResponseWriter, r *http.Request) {
	rows, req, err := s.resolveMerge(r)
	if err != nil {
		writeError(w, err.Error())
		return
	}
	name := fmt.Sprintf("merged_%s_%d_files.csv", req.Strategy, len(req.FileIDs))
	f := s.store.AddMerged(req.SessionID, name, rows)
	writeJSON(w, struct {
		Status     string            `json:"status"`
		MergedData *workflow.Dataset `json:"merged_data"`
	}{
		Status: "success",
		MergedData: &workflow.Dataset{
			ID:         f.ID,
			Filename:   f.Name,
			Data:       f.Rows,
			SampleData: sampleRows(f.Rows, 10),
			IsMerged:   true,
		},
	})
}

func (s *Server) handleAnalysisSuggestions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	phaseID := chi.URLParam(r, "phaseID")
	f, ok := s.store.File(sessionID, phaseID)
	if !ok {
		writeError(w, "unknown file "+phaseID)
		return
	}

	var numeric []string
	for _, col := range f.Columns {
		if isNumeric(f.Rows, col) {
			numeric = append(numeric, col)
		}
	}
	suggestions := []string{"Summarize the dataset"}
	if len(numeric) >= 2 {
		suggestions = append(suggestions,
			fmt.Sprintf("Plot %s against %s", numeric[1], numeric[0]),
			fmt.Sprintf("Show the correlation between %s and %s", numeric[0], numeric[1]),
		)
	}
	if len(numeric) >= 1 {
		suggestions = append(suggestions, fmt.Sprintf("Chart the distribution of %s", numeric[0]))
	}
	writeJSON(w, struct {
		Status      string   `json:"status"`
		Suggestions []string `json:"suggestions"`
	}{Status: "success", Suggestions: suggestions})
}

func (s *Server) handleAnalysisStatistics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID     string `json:"session_id"`
		SourcePhaseID string `json:"source_phase_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, "bad request body: "+err.Error())
		return
	}
	f, ok := s.store.File(req.SessionID, req.SourcePhaseID)
	if !ok {
		writeError(w, "unknown file "+req.SourcePhaseID)
		return
	}
	writeJSON(w, struct {
		Status string `json:"status"`
		*gateway.AnalysisStatistics
	}{Status: "success", AnalysisStatistics: analysisStatistics(f)})
}
