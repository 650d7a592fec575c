package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/waterfall/pkg/buildinfo"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/host"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/scene"
	"github.com/matzehuels/waterfall/pkg/scene/svg"
	"github.com/matzehuels/waterfall/pkg/session"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// ChartRequest is the body of chart create and update requests.
type ChartRequest struct {
	Data    []waterfall.RawItem `json:"data"`
	Options waterfall.Options   `json:"options,omitzero"`
}

// ChartResponse describes a stored chart.
type ChartResponse struct {
	*session.Session
	Items []waterfall.Item `json:"items"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
	Charts int            `json:"charts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Build:  buildinfo.Get(),
		Charts: s.registry.Len(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decode(w, r, &opts); err != nil {
		writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	if res.DataHash != "" {
		w.Header().Set("ETag", strconv.Quote(res.DataHash))
	}
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	items, err := adapt(req)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := session.New(req.Data, req.Options, s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store chart"))
		return
	}
	s.logger.Debug("created chart", "id", sess.ID, "rows", len(req.Data))

	w.Header().Set("Location", "/v1/charts/"+sess.ID)
	writeJSON(w, http.StatusCreated, ChartResponse{Session: sess, Items: items})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := adapt(ChartRequest{Data: sess.Data, Options: sess.Options})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChartResponse{Session: sess, Items: items})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req ChartRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	// A rejected update leaves the stored chart as it was.
	items, err := adapt(req)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.Touch(req.Data, req.Options, s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store chart"))
		return
	}
	writeJSON(w, http.StatusOK, ChartResponse{Session: sess, Items: items})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete chart"))
		return
	}
	s.unmount(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var parent float64
	if q := r.URL.Query().Get("width"); q != "" {
		parent, err = strconv.ParseFloat(q, 64)
		if err == nil {
			err = errors.ValidateWidth(parent)
		}
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "width %q", q))
			return
		}
	}
	if parent == 0 && sess.Options.Width == 0 {
		parent = pipeline.DefaultWidth
	}

	id := sess.ID
	lc := s.liveFor(id)
	lc.mu.Lock()
	defer lc.mu.Unlock()

	// A delete may have run since lookup. Reload under the lock so a
	// removed chart is never mounted again.
	if lc.closed {
		writeError(w, notFound("chart %q not found", id))
		return
	}
	sess, err = s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load chart"))
		return
	}
	if sess == nil {
		s.forget(id, lc)
		writeError(w, notFound("chart %q not found", id))
		return
	}

	props := host.Props{Data: sess.Data, Options: sess.Options}
	drawn := true
	if lc.binding.Chart() == nil {
		err = lc.binding.OnMount(props, parent)
	} else {
		drawn, err = lc.binding.OnPropsChanged(props, parent)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	surface, ok := lc.binding.Scene().(*svg.Surface)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInternal, "surface %s is not an svg surface", sess.ID))
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatSVG])
	w.Header().Set("X-Redrawn", strconv.FormatBool(drawn))
	w.Header().Set("Last-Modified", sess.UpdatedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(surface.Bytes())
}

// lookup loads the session named by the {id} route parameter.
func (s *Server) lookup(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSurfaceID(id); err != nil {
		return nil, notFound("chart %q not found", id)
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load chart")
	}
	if sess == nil {
		return nil, notFound("chart %q not found", id)
	}
	return sess, nil
}

func svgFactory(id string) scene.Scene { return svg.New(svg.WithClass(id)) }

func adapt(req ChartRequest) ([]waterfall.Item, error) {
	items, _, err := pipeline.Adapt(pipeline.Options{Data: req.Data, Chart: req.Options})
	return items, err
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeChartNotFound, format, args...)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsInvalidInput(err), errors.IsInvalidConfig(err),
		errors.Is(err, errors.ErrCodeInvalidFormat), errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, StatusCode(err), ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
