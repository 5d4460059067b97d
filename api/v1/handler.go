package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Polqt/sbeschema/internal/registry/service"
	"github.com/Polqt/sbeschema/internal/registry/store"
	"github.com/Polqt/sbeschema/internal/sbe/sbeerr"
	"github.com/Polqt/sbeschema/internal/sbe/strategy"
)

// Handler wires a service.Service to HTTP handlers.
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

// NewHandler constructs a Handler over svc, logging via log (defaulting
// to logrus' standard logger when log is nil).
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{svc: svc, log: log}
}

// Router builds the chi.Router exposing every endpoint in
// SPEC_FULL.md §3.2, wrapped in request-id, logging, and recovery
// middleware.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(h.log))
	r.Use(recoveryMiddleware(h.log))

	r.Route("/subjects/{subject}/versions", func(r chi.Router) {
		r.Post("/", h.register)
		r.Get("/latest", h.getVersion)
		r.Get("/{version}", h.getVersion)
	})
	r.Get("/subjects", h.listSubjects)
	r.Get("/subjects/{subject}/versions", h.listVersions)

	r.Post("/compatibility/subjects/{subject}/versions/latest", h.checkCompatibility)

	r.Get("/config/{subject}", h.getConfig)
	r.Put("/config/{subject}", h.putConfig)

	r.Get("/metrics", h.svc.MetricsHandler().ServeHTTP)

	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	version, err := h.svc.Register(subject, body)
	if err != nil {
		writeSchemaError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, versionResponse{
		ID:      version.Signature[:8],
		Subject: version.Subject,
		Version: version.Number,
	})
}

type versionResponse struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Version int    `json:"version"`
}

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	raw := chi.URLParam(r, "version")

	var (
		v   *store.Version
		err error
	)
	if raw == "" || raw == "latest" {
		v, err = h.svc.GetLatest(subject)
	} else {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeError(w, r, http.StatusBadRequest, "version must be an integer or \"latest\"")
			return
		}
		v, err = h.svc.GetVersion(subject, n)
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schemaResponse{
		Subject: v.Subject,
		Version: v.Number,
		Schema:  string(v.Raw),
	})
}

type schemaResponse struct {
	Subject string `json:"subject"`
	Version int    `json:"version"`
	Schema  string `json:"schema"`
}

func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Subjects())
}

func (h *Handler) listVersions(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	versions, err := h.svc.Versions(subject)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *Handler) checkCompatibility(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	level, err := h.svc.CheckCompatibility(subject, body)
	if err != nil {
		writeSchemaError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, compatibilityResponse{
		IsCompatible: level != "None",
		Level:        level,
	})
}

type compatibilityResponse struct {
	IsCompatible bool   `json:"is_compatible"`
	Level        string `json:"level"`
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	strat, err := h.svc.Strategy(subject)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, configResponse{CompatibilityLevel: strat.String()})
}

func (h *Handler) putConfig(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	var body configResponse
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	strat, ok := strategy.Parse(body.CompatibilityLevel)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unknown compatibility level "+body.CompatibilityLevel)
		return
	}
	if err := h.svc.SetStrategy(subject, strat); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, configResponse{CompatibilityLevel: strat.String()})
}

type configResponse struct {
	CompatibilityLevel string `json:"compatibilityLevel"`
}

func writeSchemaError(w http.ResponseWriter, r *http.Request, err error) {
	var e *sbeerr.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case sbeerr.KindSchemaNotCompatible:
			writeJSON(w, http.StatusConflict, compatibilityErrorResponse{
				Message: e.Error(),
				Level:   e.Level,
			})
			return
		case sbeerr.KindSchemaParse, sbeerr.KindMissingVersion, sbeerr.KindMissingMessageHeader, sbeerr.KindDuplicateTypeName:
			writeError(w, r, http.StatusUnprocessableEntity, e.Error())
			return
		}
	}
	writeError(w, r, http.StatusInternalServerError, err.Error())
}

type compatibilityErrorResponse struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrSubjectNotFound) || errors.Is(err, store.ErrVersionNotFound) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	writeSchemaError(w, r, err)
}
