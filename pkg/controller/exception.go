package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
)

type recordExceptionRequest struct {
	Message       string `json:"message"`
	SourceArchive string `json:"source_archive"`
}

func (s *Server) handleRecordException(c *gin.Context) {
	var req recordExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, goerr.Wrap(err, "invalid request body", goerr.T(model.TagInvalidRequest)))
		return
	}

	out, err := s.exceptions.Record(c.Request.Context(), &exception.RecordInput{
		Message:       req.Message,
		SourceArchive: req.SourceArchive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fingerprint":  out.Fingerprint,
		"occurrences":  out.Occurrences,
		"is_duplicate": out.IsDuplicate,
	})
}

func (s *Server) handleSearchExceptions(c *gin.Context) {
	out, err := s.exceptions.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListExceptions(c *gin.Context) {
	out, err := s.exceptions.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
