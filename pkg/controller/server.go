package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/usecase/ingest"
	"github.com/m-mizutani/harrier/pkg/usecase/notify"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
)

// Server is the HTTP binding of the exception registry, the notification
// sink read side and the archive upload endpoint.
type Server struct {
	engine     *gin.Engine
	exceptions *exception.UseCase
	notifier   *notify.UseCase
	ingester   *ingest.UseCase
}

// New creates a configured Server
func New(exceptions *exception.UseCase, notifier *notify.UseCase, ingester *ingest.UseCase) *Server {
	s := &Server{
		engine:     gin.New(),
		exceptions: exceptions,
		notifier:   notifier,
		ingester:   ingester,
	}

	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api/v1")
	api.POST("/archives", s.handleUploadArchive)
	api.POST("/exceptions", s.handleRecordException)
	api.GET("/exceptions", s.handleListExceptions)
	api.GET("/exceptions/search", s.handleSearchExceptions)
	api.GET("/notifications", s.handleListNotifications)

	return s
}

// Handler returns the http.Handler for this server
func (s *Server) Handler() http.Handler {
	return s.engine
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.From(c.Request.Context()).Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

// respondError maps the error taxonomy to HTTP status codes. Validation
// failures are the client's fault; storage failures are reported as 503 and
// never converted into a default answer.
func respondError(c *gin.Context, err error) {
	logging.From(c.Request.Context()).Error("request failed", "error", err)

	status := http.StatusInternalServerError
	switch {
	case goerr.HasTag(err, model.TagInvalidRequest):
		status = http.StatusBadRequest
	case goerr.HasTag(err, model.TagStorageUnavailable):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
