// Package server exposes the converter over HTTP: a PDF is uploaded as a
// multipart form and the annotated workbook comes back as a download.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/pdf2xlsx"
	"github.com/pyhub-apps/pdf2xlsx/pkg/logging"
	"github.com/pyhub-apps/pdf2xlsx/pkg/output"
	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf"
)

// XLSXContentType is the media type of the converted workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// multipartOverhead is allowed on top of the file limit for form framing
const multipartOverhead = 1 << 20

// Server handles conversion requests
type Server struct {
	conv     *pdf2xlsx.Converter
	log      logrus.FieldLogger
	maxBytes int64
	suffix   string
	registry *prometheus.Registry
	metrics  *Metrics
	router   chi.Router
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithRegistry collects metrics into reg instead of a private registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// New returns a server using conv. Upload limits and the download suffix
// come from the converter's configuration.
func New(conv *pdf2xlsx.Converter, opts ...Option) *Server {
	cfg := conv.Config()
	s := &Server{
		conv:     conv,
		log:      logging.Discard(),
		maxBytes: cfg.Upload.MaxBytes,
		suffix:   cfg.Output.Suffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = newRegistry()
	}
	s.metrics = NewMetrics(s.registry)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Post("/convert", s.handleConvert)
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	}
}

type ctxKey struct{}

// requestID reuses the caller's X-Request-ID or assigns a new uuid
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned to the request
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"request_id": RequestID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
		}).Info("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := s.log.WithField("request_id", RequestID(r.Context()))

	fail := func(outcome string, code int, err error, msg string) {
		s.metrics.observe(outcome, time.Since(start).Seconds())
		entry := log.WithError(err).WithField("status", code)
		if code >= http.StatusInternalServerError {
			entry.Error(msg)
		} else {
			entry.Warn(msg)
		}
		respondWithError(w, r, code, msg)
	}

	if s.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		fail(OutcomeInvalid, http.StatusBadRequest, err, "failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		fail(OutcomeInvalid, http.StatusBadRequest, err, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(OutcomeInvalid, http.StatusBadRequest, err, "failed to read uploaded file")
		return
	}
	if err := output.ValidateUpload(data, s.maxBytes); err != nil {
		fail(OutcomeInvalid, http.StatusBadRequest, err, err.Error())
		return
	}

	info, err := pdf.Inspect(bytes.NewReader(data))
	if err != nil {
		fail(OutcomeInvalid, http.StatusBadRequest, err, "file is not a readable PDF")
		return
	}
	log = log.WithFields(logrus.Fields{"file": header.Filename, "pages": info.PageCount})

	res, err := s.conv.ConvertBytes(data)
	if err != nil {
		var renderErr *pdf2xlsx.RenderError
		switch {
		case errors.Is(err, pdf2xlsx.ErrExtractionEmpty):
			fail(OutcomeEmpty, http.StatusUnprocessableEntity, err, pdf2xlsx.ErrExtractionEmpty.Error())
		case errors.As(err, &renderErr):
			fail(OutcomeError, http.StatusInternalServerError, err, "failed to render workbook")
		case errors.Is(err, pdf.ErrNoReader):
			fail(OutcomeInvalid, http.StatusBadRequest, err, "file is not a readable PDF")
		default:
			fail(OutcomeError, http.StatusInternalServerError, err, "conversion failed")
		}
		return
	}

	s.metrics.observe(OutcomeSuccess, time.Since(start).Seconds())
	s.metrics.annotated(res.Directives)
	log.WithFields(logrus.Fields{
		"rows":   len(res.Table),
		"red":    res.Report.RedRows,
		"orange": res.Report.OrangeRows,
	}).Info("converted upload")

	name := output.OutputName(header.Filename, s.suffix)
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func respondWithError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}
