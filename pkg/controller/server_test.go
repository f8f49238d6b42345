package controller_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/controller"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/repository"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/usecase/ingest"
	"github.com/m-mizutani/harrier/pkg/usecase/notify"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() http.Handler {
	return newServerWith(repository.NewMemory())
}

func newServerWith(repo repository.Repository) http.Handler {
	exceptions := exception.New(repo)
	notifier := notify.New(repo)
	ingester := ingest.New(exceptions, notifier)
	return controller.New(exceptions, notifier, ingester).Handler()
}

// unavailableRepository fails every exception operation the way the Firestore
// repository does when the backend is down.
type unavailableRepository struct {
	repository.Repository
}

func (r *unavailableRepository) RecordOccurrence(ctx context.Context, message, sourceArchive string, observedAt time.Time) (*model.ExceptionRecord, error) {
	return nil, goerr.New("store unreachable", goerr.T(model.TagStorageUnavailable))
}

func (r *unavailableRepository) GetException(ctx context.Context, fp model.Fingerprint) (*model.ExceptionRecord, error) {
	return nil, goerr.New("store unreachable", goerr.T(model.TagStorageUnavailable))
}

func (r *unavailableRepository) ListExceptions(ctx context.Context) ([]*model.ExceptionRecord, error) {
	return nil, goerr.New("store unreachable", goerr.T(model.TagStorageUnavailable))
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	gt.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, handler http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestRecordExceptionEndpoint(t *testing.T) {
	handler := newTestServer()

	w := postJSON(t, handler, "/api/v1/exceptions", map[string]string{
		"message":        "NullPointerException",
		"source_archive": "a.zip",
	})
	gt.Equal(t, w.Code, http.StatusOK)

	var resp struct {
		Occurrences int64 `json:"occurrences"`
		IsDuplicate bool  `json:"is_duplicate"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	gt.Equal(t, resp.Occurrences, int64(1))
	gt.False(t, resp.IsDuplicate)

	w = postJSON(t, handler, "/api/v1/exceptions", map[string]string{
		"message":        "  nullpointerexception  ",
		"source_archive": "b.zip",
	})
	gt.Equal(t, w.Code, http.StatusOK)
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	gt.Equal(t, resp.Occurrences, int64(2))
	gt.True(t, resp.IsDuplicate)
}

func TestRecordExceptionValidation(t *testing.T) {
	handler := newTestServer()

	w := postJSON(t, handler, "/api/v1/exceptions", map[string]string{"message": "x"})
	gt.Equal(t, w.Code, http.StatusBadRequest)

	w = postJSON(t, handler, "/api/v1/exceptions", map[string]string{"source_archive": "a.zip"})
	gt.Equal(t, w.Code, http.StatusBadRequest)
}

func TestSearchEndpoint(t *testing.T) {
	handler := newTestServer()

	postJSON(t, handler, "/api/v1/exceptions", map[string]string{
		"message":        "Known exception",
		"source_archive": "a.zip",
	})

	var resp struct {
		MatchCount  int   `json:"match_count"`
		Occurrences int64 `json:"occurrences"`
	}
	w := getJSON(t, handler, "/api/v1/exceptions/search?q=known+exception", &resp)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, resp.MatchCount, 1)
	gt.Equal(t, resp.Occurrences, int64(1))

	// Unknown query is a successful empty result
	w = getJSON(t, handler, "/api/v1/exceptions/search?q=unknown", &resp)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, resp.MatchCount, 0)

	// Missing query is a validation failure
	w = getJSON(t, handler, "/api/v1/exceptions/search", nil)
	gt.Equal(t, w.Code, http.StatusBadRequest)
}

func TestListExceptionsEndpoint(t *testing.T) {
	handler := newTestServer()

	for _, msg := range []string{"one", "two", "three"} {
		postJSON(t, handler, "/api/v1/exceptions", map[string]string{
			"message":        msg,
			"source_archive": "a.zip",
		})
	}

	var resp struct {
		Total      int `json:"total"`
		Exceptions []struct {
			Message string `json:"message"`
		} `json:"exceptions"`
	}
	w := getJSON(t, handler, "/api/v1/exceptions", &resp)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, resp.Total, 3)
	gt.A(t, resp.Exceptions).Length(3)
	gt.Equal(t, resp.Exceptions[0].Message, "one")
}

func TestUploadArchiveEndpoint(t *testing.T) {
	handler := newTestServer()

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	f, err := zw.Create("message.txt")
	gt.NoError(t, err)
	_, err = f.Write([]byte("hello from the archive"))
	gt.NoError(t, err)
	gt.NoError(t, zw.Close())

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("archive", "upload.zip")
	gt.NoError(t, err)
	_, err = fw.Write(buf.Bytes())
	gt.NoError(t, err)
	gt.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/archives", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	gt.Equal(t, w.Code, http.StatusOK)

	var resp struct {
		SourceArchive string `json:"source_archive"`
		Message       string `json:"message"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	gt.Equal(t, resp.SourceArchive, "upload.zip")
	gt.Equal(t, resp.Message, "hello from the archive")

	// The message notification must be listed back
	var listResp struct {
		Total int `json:"total"`
	}
	w2 := getJSON(t, handler, "/api/v1/notifications", &listResp)
	gt.Equal(t, w2.Code, http.StatusOK)
	gt.Equal(t, listResp.Total, 1)
}

func TestUploadArchiveMissingFile(t *testing.T) {
	handler := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/archives", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	gt.Equal(t, w.Code, http.StatusBadRequest)
}

func TestStorageFailureMapsToServiceUnavailable(t *testing.T) {
	handler := newServerWith(&unavailableRepository{})

	w := postJSON(t, handler, "/api/v1/exceptions", map[string]string{
		"message":        "x",
		"source_archive": "a.zip",
	})
	gt.Equal(t, w.Code, http.StatusServiceUnavailable)
	// Never a default answer: the body must not look like a successful record
	gt.S(t, w.Body.String()).NotContains("is_duplicate")

	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/v1/exceptions/search?q=x", nil))
	gt.Equal(t, w2.Code, http.StatusServiceUnavailable)
	gt.S(t, w2.Body.String()).NotContains("match_count")

	w3 := httptest.NewRecorder()
	handler.ServeHTTP(w3, httptest.NewRequest(http.MethodGet, "/api/v1/exceptions", nil))
	gt.Equal(t, w3.Code, http.StatusServiceUnavailable)
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer()

	w := getJSON(t, handler, "/health", nil)
	gt.Equal(t, w.Code, http.StatusOK)
}
