package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/h2go/h2reflect/internal/database"
	"github.com/h2go/h2reflect/internal/schema"
)

// handleListSchemas returns every schema name in the catalog.
// GET /v1/schemas
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.inspector.ListSchemas(r.Context())
	if err != nil {
		writeErrorFor(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemas": names})
}

// handleListTables returns the table names of one schema, sorted ascending.
// GET /v1/schemas/{schema}/tables
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	schemaName := chi.URLParam(r, "schema")

	tables, err := s.inspector.ListTables(r.Context(), schemaName)
	if err != nil {
		writeErrorFor(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

// handleReflectSchema returns the full reflected description of one schema.
// GET /v1/schemas/{schema}
func (s *Server) handleReflectSchema(w http.ResponseWriter, r *http.Request) {
	schemaName := chi.URLParam(r, "schema")

	info, err := s.inspector.ReflectSchema(r.Context(), schemaName)
	if err != nil {
		writeErrorFor(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleReflectTable returns the reflected description of one table, or 404
// when the table does not exist in the schema.
// GET /v1/schemas/{schema}/tables/{table}
func (s *Server) handleReflectTable(w http.ResponseWriter, r *http.Request) {
	schemaName := chi.URLParam(r, "schema")
	tableName := chi.URLParam(r, "table")

	ok, err := s.inspector.HasTable(r.Context(), tableName, schemaName)
	if err != nil {
		writeErrorFor(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "table not found: "+tableName)
		return
	}

	ts, err := s.inspector.ReflectTable(r.Context(), tableName, schemaName)
	if err != nil {
		writeErrorFor(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

// handleInvalidate drops the cached entries for one table.
// DELETE /v1/schemas/{schema}/tables/{table}/cache
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	s.inspector.Invalidate(chi.URLParam(r, "table"), chi.URLParam(r, "schema"))
	w.WriteHeader(http.StatusNoContent)
}

// handleResetCache clears the whole inspector cache.
// DELETE /v1/cache
func (s *Server) handleResetCache(w http.ResponseWriter, r *http.Request) {
	s.inspector.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// handleSaveSnapshot reflects the schema and archives it in object storage.
// POST /v1/schemas/{schema}/snapshots
func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.archiver == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot storage is not configured")
		return
	}
	schemaName := chi.URLParam(r, "schema")

	info, err := s.inspector.ReflectSchema(r.Context(), schemaName)
	if err != nil {
		writeErrorFor(w, err)
		return
	}

	obj, err := s.archiver.Save(r.Context(), info)
	if err != nil {
		writeErrorFor(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, obj)
}

// handleListSnapshots lists the archived snapshots of one schema.
// GET /v1/schemas/{schema}/snapshots
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.archiver == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot storage is not configured")
		return
	}

	objs, err := s.archiver.List(r.Context(), chi.URLParam(r, "schema"))
	if err != nil {
		writeErrorFor(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": objs})
}

// writeErrorFor maps an engine error to an HTTP status.
func writeErrorFor(w http.ResponseWriter, err error) {
	switch {
	case database.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case database.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case database.IsTimeout(err):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case database.IsConnectionFailed(err):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case schema.IsUnknownType(err), schema.IsMalformedConstraint(err), schema.IsAmbiguousIndex(err):
		// The catalog answered but with content the engine cannot represent.
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg, "status": status})
}
