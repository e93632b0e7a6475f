package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/panelmap/pkg/buildinfo"
	"github.com/matzehuels/panelmap/pkg/diagram"
	perrors "github.com/matzehuels/panelmap/pkg/errors"
	pkgio "github.com/matzehuels/panelmap/pkg/io"
	"github.com/matzehuels/panelmap/pkg/pipeline"
	"github.com/matzehuels/panelmap/pkg/tree"
)

// cacheHeader reports whether the response came from the cache.
const cacheHeader = "X-Panelmap-Cache"

// exportFailedMessage is shown instead of internal export errors.
const exportFailedMessage = "could not generate document"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// statusError carries an HTTP status that no error code maps to.
type statusError struct {
	status  int
	code    perrors.Code
	message string
	cause   error
}

func (e *statusError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *statusError) Unwrap() error { return e.cause }

var (
	errNotFound         = &statusError{http.StatusNotFound, "NOT_FOUND", "no such route", nil}
	errMethodNotAllowed = &statusError{http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil}
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

// handleDiagram builds a laid-out diagram from a tree.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	data, err := s.readBody(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	root, err := pipeline.Parse(data, inputFormat(r), tree.NewCounter(), opts.Logger)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	d, hit, err := s.runner.BuildWithCacheInfo(r.Context(), root, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(d, &buf); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set(cacheHeader, hitString(hit))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleExport exports a tree or an already laid-out diagram as a
// document. A body with a "nodes" array is taken to be a diagram.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatPDF
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	data, err := s.readBody(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var d diagram.Diagram
	if isDiagram(data) {
		d, err = pkgio.ReadJSON(bytes.NewReader(data))
	} else {
		var root *tree.Node
		root, err = pipeline.Parse(data, inputFormat(r), tree.NewCounter(), opts.Logger)
		if err == nil {
			d, err = s.runner.Build(r.Context(), root, opts)
		}
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	docs, hit, err := s.runner.ExportWithCacheInfo(r.Context(), d, opts)
	if err != nil {
		s.respondError(w, r, exportError(err))
		return
	}
	doc := docs[format]

	h := w.Header()
	h.Set(cacheHeader, hitString(hit))
	h.Set("Content-Type", doc.ContentType())
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	h.Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

// options applies query overrides to the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Logger = s.logger
	q := r.URL.Query()

	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("direction"); v != "" {
		opts.Direction = diagram.Direction(strings.ToUpper(v))
	}
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"rank_sep", &opts.RankSep},
		{"node_sep", &opts.NodeSep},
	} {
		if v := q.Get(p.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return opts, perrors.New(perrors.ErrCodeInvalidInput, "%s must be a positive number", p.name)
			}
			*p.dst = f
		}
	}
	if v := q.Get("normalize"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, perrors.New(perrors.ErrCodeInvalidInput, "normalize must be true or false")
		}
		opts.SkipNormalize = !b
	}
	if err := opts.ValidateForBuild(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &statusError{http.StatusRequestEntityTooLarge, perrors.ErrCodeInvalidInput,
				fmt.Sprintf("request body exceeds %d bytes", s.maxBody), err}
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "request body is empty")
	}
	return data, nil
}

// exportError hides internal export failures behind a generic message.
func exportError(err error) error {
	switch perrors.GetCode(err) {
	case perrors.ErrCodeInternal, "":
		return &statusError{http.StatusInternalServerError, perrors.ErrCodeInternal, exportFailedMessage, err}
	}
	return err
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var resp ErrorResponse
	var status int

	var se *statusError
	if errors.As(err, &se) {
		status = se.status
		resp = ErrorResponse{Code: string(se.code), Message: se.message}
	} else {
		status = perrors.HTTPStatus(err)
		resp = ErrorResponse{Code: string(perrors.GetCode(err)), Message: perrors.UserMessage(err)}
	}

	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	if resp.Code == "" {
		resp.Code = string(perrors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status)
		s.logger.Debug("request failure detail", "path", r.URL.Path, "error", err)
		if se == nil && status == http.StatusInternalServerError {
			resp.Message = "internal error"
		}
	}
	s.respondJSON(w, status, resp)
}

// isDiagram reports whether data is a diagram document.
func isDiagram(data []byte) bool {
	var doc struct {
		Nodes json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	return len(doc.Nodes) > 0 && doc.Nodes[0] == '['
}

// inputFormat picks the tree format from the Content-Type header.
func inputFormat(r *http.Request) string {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return tree.FormatYAML
	default:
		return tree.FormatJSON
	}
}

func hitString(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
