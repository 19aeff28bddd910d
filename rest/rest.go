package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"nhooyr.io/websocket"
	"voyager.com/settable/display"
	"voyager.com/settable/logging"
	"voyager.com/settable/table"
)

var restLogger = logging.GetZeroLogger("rest::rest", nil)

type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type tableCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

type server struct {
	manager *table.Manager
	hub     *display.Hub
}

// NewRouter builds the inspection routes. hub may be nil, in which case
// the websocket route is not registered.
func NewRouter(manager *table.Manager, hub *display.Hub) *gin.Engine {
	s := &server{manager: manager, hub: hub}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/tables", s.tables)
	r.GET("/tables/:code", s.snapshot)
	r.GET("/tables/:code/hints", s.hints)
	r.GET("/tables/:code/count", s.count)
	r.GET("/finished/:code", s.finished)
	if hub != nil {
		r.GET("/tables/:code/ws", s.events)
	}
	return r
}

func RunRestServer(manager *table.Manager, hub *display.Hub, port int) error {
	addr := fmt.Sprintf(":%d", port)
	restLogger.Info().Msgf("Listening on %s", addr)
	return NewRouter(manager, hub).Run(addr)
}

func (s *server) table(c *gin.Context) (*table.Table, bool) {
	code := c.Param("code")
	t, ok := s.manager.Get(code)
	if !ok {
		c.JSON(http.StatusNotFound, appError{
			Code:    http.StatusNotFound,
			Message: table.NotFoundError{Code: code}.Error(),
		})
		return nil, false
	}
	return t, true
}

func (s *server) tables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": s.manager.Codes()})
}

func (s *server) snapshot(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, t.Snapshot())
}

func (s *server) hints(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}
	hints := t.Hints()
	if hints == nil {
		hints = []table.Hint{}
	}
	c.JSON(http.StatusOK, gin.H{"hints": hints})
}

func (s *server) count(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tableCount{Code: t.Code(), Count: t.CountCards()})
}

func (s *server) finished(c *gin.Context) {
	code := c.Param("code")
	snapshot, ok := s.manager.Finished(code)
	if !ok {
		c.JSON(http.StatusNotFound, appError{Code: http.StatusNotFound, Message: table.NotFoundError{Code: code}.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *server) events(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		restLogger.Error().Str(logging.TableCodeKey, t.Code()).Msgf("Failed to accept websocket: %v", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	err = s.hub.Serve(c.Request.Context(), t.Code(), conn)
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	restLogger.Debug().Str(logging.TableCodeKey, t.Code()).Msgf("Websocket closed: %v", err)
}
