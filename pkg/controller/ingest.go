package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/usecase/ingest"
)

// Uploads larger than this are rejected before reading into memory.
const maxUploadSize = 32 << 20

func (s *Server) handleUploadArchive(c *gin.Context) {
	file, header, err := c.Request.FormFile("archive")
	if err != nil {
		respondError(c, goerr.Wrap(err, "archive file is required", goerr.T(model.TagInvalidRequest)))
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondError(c, goerr.New("archive too large",
			goerr.V("size", header.Size), goerr.T(model.TagInvalidRequest)))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		respondError(c, goerr.Wrap(err, "failed to read archive", goerr.T(model.TagInvalidRequest)))
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = header.Filename
	}

	result, err := s.ingester.Ingest(c.Request.Context(), &ingest.Input{
		ArchiveName: name,
		Data:        data,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
