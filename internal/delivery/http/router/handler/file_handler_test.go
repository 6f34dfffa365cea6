package handler

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "strongbox/internal/delivery/context"
	"strongbox/internal/domain/entity"
	"strongbox/internal/mocks"
	"strongbox/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDownloadContext(t *testing.T, fileID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/files/"+fileID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fileID)
	c.Set(deliverycontext.KeyPrincipal, &usecase.Principal{UserID: 5, Role: entity.RoleUser})

	return c, rec
}

func TestFileHandler_Download_SetsContentDisposition(t *testing.T) {
	uc := &mocks.StorageUsecase{}
	uc.On("Retrieve", mock.Anything, int64(5), "abc").Return(&usecase.RetrieveFileOutput{
		File: &entity.File{ID: "abc", UserID: 5, OriginalName: "report.pdf", MimeType: "application/pdf"},
		Data: []byte("content"),
	}, nil)
	h := NewFileHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, rec := newDownloadContext(t, "abc")
	require.NoError(t, h.Download(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "content", rec.Body.String())

	mediaType, params, err := mime.ParseMediaType(rec.Header().Get(echo.HeaderContentDisposition))
	require.NoError(t, err)
	assert.Equal(t, "attachment", mediaType)
	assert.Equal(t, "report.pdf", params["filename"])
}

func TestFileHandler_Download_EscapesHostileFilename(t *testing.T) {
	hostile := "evil\".pdf\r\nSet-Cookie: pwned=1"

	uc := &mocks.StorageUsecase{}
	uc.On("Retrieve", mock.Anything, int64(5), "abc").Return(&usecase.RetrieveFileOutput{
		File: &entity.File{ID: "abc", UserID: 5, OriginalName: hostile, MimeType: "application/pdf"},
		Data: []byte("content"),
	}, nil)
	h := NewFileHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, rec := newDownloadContext(t, "abc")
	require.NoError(t, h.Download(c))

	// A client-supplied name must never break out of the header value.
	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	assert.NotContains(t, disposition, "\r")
	assert.NotContains(t, disposition, "\n")
	assert.Empty(t, rec.Header().Get("Set-Cookie"))

	mediaType, _, err := mime.ParseMediaType(disposition)
	require.NoError(t, err)
	assert.Equal(t, "attachment", mediaType)
}
