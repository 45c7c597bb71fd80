package panel

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/MalithGihan/tramnet-panel/internal/backend"
)

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type pathRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type statusRequest struct {
	Active *bool `json:"active"`
}

type connectionRef struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewRouter exposes the controller to the browser shell. metricsHandler may be nil.
func NewRouter(c *Controller, metricsHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"tramnet-panel"}`))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/panel", func(r chi.Router) {
		r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, response{Success: true, Data: c.State()})
		})

		r.Get("/graph", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, response{Success: true, Data: c.renderer.View()})
		})

		r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
			err := c.RefreshNetwork(r.Context())
			reply(w, err, func() any { return c.State() })
		})

		r.Post("/path", func(w http.ResponseWriter, r *http.Request) {
			var req pathRequest
			if !decode(w, r, &req) {
				return
			}
			err := c.FindShortestPath(r.Context(), req.Start, req.End)
			reply(w, err, func() any {
				st := c.State()
				return map[string]any{"path": st.Path, "graph": st.Graph}
			})
		})

		r.Post("/stops/{id}/select", func(w http.ResponseWriter, r *http.Request) {
			ok, err := c.SelectStop(r.Context(), chi.URLParam(r, "id"))
			if !ok {
				writeJSON(w, http.StatusNotFound, response{Message: "Stop not found"})
				return
			}
			reply(w, err, func() any { return c.State().Details })
		})

		r.Get("/stops/status", func(w http.ResponseWriter, r *http.Request) {
			err := c.LoadStopStatus(r.Context())
			reply(w, err, func() any { return c.State().StopStatus })
		})

		r.Put("/stops/{id}/status", func(w http.ResponseWriter, r *http.Request) {
			var req statusRequest
			if !decode(w, r, &req) {
				return
			}
			if req.Active == nil {
				writeJSON(w, http.StatusBadRequest, response{Message: "Missing 'active' field"})
				return
			}
			err := c.ToggleStopStatus(r.Context(), chi.URLParam(r, "id"), *req.Active)
			reply(w, err, func() any { return c.State().StopStatus })
		})

		r.Post("/stops", func(w http.ResponseWriter, r *http.Request) {
			var f StopForm
			if !decode(w, r, &f) {
				return
			}
			reply(w, c.AddStop(r.Context(), f), nil)
		})

		r.Delete("/stops/{id}", func(w http.ResponseWriter, r *http.Request) {
			reply(w, c.DeleteStop(r.Context(), chi.URLParam(r, "id")), nil)
		})

		r.Get("/connections", func(w http.ResponseWriter, r *http.Request) {
			err := c.LoadConnections(r.Context())
			reply(w, err, func() any { return c.State().Connections })
		})

		r.Post("/connections", func(w http.ResponseWriter, r *http.Request) {
			var f ConnectionForm
			if !decode(w, r, &f) {
				return
			}
			reply(w, c.AddConnection(r.Context(), f), nil)
		})

		r.Delete("/connections", func(w http.ResponseWriter, r *http.Request) {
			var ref connectionRef
			if !decode(w, r, &ref) {
				return
			}
			reply(w, c.DeleteConnection(r.Context(), ref.From, ref.To), nil)
		})
	})

	return r
}

// reply writes the envelope for a controller call. data is evaluated only on
// success and may be nil.
func reply(w http.ResponseWriter, err error, data func() any) {
	if err != nil {
		writeJSON(w, statusFor(err), response{Message: UserMessage(err)})
		return
	}
	resp := response{Success: true}
	if data != nil {
		resp.Data = data()
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	var v *ValidationError
	if errors.As(err, &v) {
		return http.StatusBadRequest
	}
	if backend.IsTransport(err) {
		return http.StatusBadGateway
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 {
			return apiErr.StatusCode
		}
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Message: "Invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
