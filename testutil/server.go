package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/restspec/request"
)

// Widget is a stored record of the fake API.
type Widget map[string]any

// RecordedRequest is one request received by the fake API.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	// Options is the raw options header, empty when absent.
	Options string
	Header  http.Header
}

type widgetState struct {
	widgets map[string]Widget
	nextID  int
}

// WidgetServer is an in-memory REST collection served at /widgets:
//
//	GET    /widgets          list, honoring filter[where][<field>] and filter[limit]
//	POST   /widgets          create, 201
//	GET    /widgets/:id      404 when missing
//	PUT    /widgets/:id      replace, 404 when missing
//	DELETE /widgets/:id      204, 404 when missing
//	DELETE /widgets          remove all, 204
//	ANY    /status/:code     replies with the given status and {"status": code}
type WidgetServer struct {
	mu       sync.Mutex
	state    widgetState
	requests []RecordedRequest
	server   *httptest.Server
	engine   *gin.Engine
}

var _ TestComponent = (*WidgetServer)(nil)

// NewWidgetServer creates a stopped WidgetServer.
func NewWidgetServer() *WidgetServer {
	s := &WidgetServer{state: widgetState{widgets: map[string]Widget{}}}
	gin.SetMode(gin.TestMode)
	s.engine = gin.New()
	s.engine.Use(s.record)
	s.routes()
	return s
}

// Name implements TestComponent.
func (s *WidgetServer) Name() string { return "widget-server" }

// Start serves the API on a local listener.
func (s *WidgetServer) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("widget server already started")
	}
	s.server = httptest.NewServer(s.engine)
	return nil
}

// Stop shuts the listener down.
func (s *WidgetServer) Stop(context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

// URL returns the server base URL. It is empty until Start.
func (s *WidgetServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return ""
	}
	return s.server.URL
}

// CollectionURL returns the widgets collection URL.
func (s *WidgetServer) CollectionURL() string {
	return s.URL() + "/widgets"
}

// Reset drops all widgets and recorded requests.
func (s *WidgetServer) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = widgetState{widgets: map[string]Widget{}}
	s.requests = nil
	return nil
}

// Snapshot captures the stored widgets.
func (s *WidgetServer) Snapshot(context.Context) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone(), nil
}

// Restore replaces the stored widgets with a snapshot.
func (s *WidgetServer) Restore(_ context.Context, snapshot interface{}) error {
	st, ok := snapshot.(widgetState)
	if !ok {
		return fmt.Errorf("widget server: unexpected snapshot type %T", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.clone()
	return nil
}

// Seed stores w and returns its assigned id.
func (s *WidgetServer) Seed(w Widget) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.insert(w)
}

// Widgets returns a copy of the stored widgets keyed by id.
func (s *WidgetServer) Widgets() map[string]Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone().widgets
}

// Requests returns the requests received so far.
func (s *WidgetServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request, or false when none arrived.
func (s *WidgetServer) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *WidgetServer) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Options:  c.GetHeader(request.OptionsHeader),
		Header:   c.Request.Header.Clone(),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *WidgetServer) routes() {
	widgets := s.engine.Group("/widgets")
	widgets.GET("", s.list)
	widgets.POST("", s.create)
	widgets.DELETE("", s.deleteAll)
	widgets.GET("/:id", s.get)
	widgets.PUT("/:id", s.replace)
	widgets.DELETE("/:id", s.remove)

	s.engine.Any("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil || code < 100 || code > 599 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		c.JSON(code, gin.H{"status": code})
	})
}

func (s *WidgetServer) list(c *gin.Context) {
	where := map[string]string{}
	for k, vs := range c.Request.URL.Query() {
		if field, ok := strings.CutPrefix(k, "filter[where]["); ok && strings.HasSuffix(field, "]") && len(vs) > 0 {
			where[strings.TrimSuffix(field, "]")] = vs[0]
		}
	}
	limit := -1
	if l, ok := c.GetQueryMap("filter"); ok {
		if n, err := strconv.Atoi(l["limit"]); err == nil {
			limit = n
		}
	}

	s.mu.Lock()
	ids := make([]string, 0, len(s.state.widgets))
	for id := range s.state.widgets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return numericLess(ids[i], ids[j]) })
	out := make([]Widget, 0, len(ids))
	for _, id := range ids {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if w := s.state.widgets[id]; matches(w, where) {
			out = append(out, w)
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *WidgetServer) create(c *gin.Context) {
	var w Widget
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	id := s.state.insert(w)
	created := s.state.widgets[id]
	s.mu.Unlock()
	c.JSON(http.StatusCreated, created)
}

func (s *WidgetServer) get(c *gin.Context) {
	s.mu.Lock()
	w, ok := s.state.widgets[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *WidgetServer) replace(c *gin.Context) {
	var w Widget
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.state.widgets[id]
	if ok {
		w["id"] = id
		s.state.widgets[id] = w
	}
	s.mu.Unlock()
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *WidgetServer) remove(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.state.widgets[id]
	delete(s.state.widgets, id)
	s.mu.Unlock()
	if !ok {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *WidgetServer) deleteAll(c *gin.Context) {
	s.mu.Lock()
	s.state.widgets = map[string]Widget{}
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "widget not found", "id": c.Param("id")})
}

func (st *widgetState) insert(w Widget) string {
	st.nextID++
	id := strconv.Itoa(st.nextID)
	stored := Widget{}
	for k, v := range w {
		stored[k] = v
	}
	stored["id"] = id
	st.widgets[id] = stored
	return id
}

func (st widgetState) clone() widgetState {
	out := widgetState{widgets: make(map[string]Widget, len(st.widgets)), nextID: st.nextID}
	for id, w := range st.widgets {
		cp := make(Widget, len(w))
		for k, v := range w {
			cp[k] = v
		}
		out.widgets[id] = cp
	}
	return out
}

func matches(w Widget, where map[string]string) bool {
	for k, want := range where {
		if fmt.Sprint(w[k]) != want {
			return false
		}
	}
	return true
}

func numericLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return x < y
}
