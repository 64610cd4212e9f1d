package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsyaark/api/internal/metrics"
)

var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x01}, 64)...)

const coralReply = `{"type":"Brain coral","geography":"Indo-Pacific","factors":[{"name":"Temperature","description":"23-29C"}],"benefits":[{"type":"Habitat","description":"Shelter for reef fish"}]}`

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/gemini/gemini", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func runVision(t *testing.T, h *VisionHandler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, h.Describe(echo.New().NewContext(req, rec)))
	return rec
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary uploads must be removed")
}

func TestVisionHandler_Success(t *testing.T) {
	dir := t.TempDir()
	m := metrics.New()
	describer := &stubDescriber{result: coralReply}
	describer.onCall = func() {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "upload is on disk during the call")
	}
	h := NewVisionHandler(describer, dir, time.Second, nil, m)

	rec := runVision(t, h, multipartRequest(t, "image", "reef.JPG", jpegBytes))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":`+quoteJSON(t, coralReply)+`}`, rec.Body.String())
	assert.Equal(t, 1, describer.calls)
	assert.Equal(t, jpegBytes, describer.image)
	assert.Equal(t, "image/jpeg", describer.mimeType)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VisionRequests.WithLabelValues(metrics.OutcomeSuccess)))
	assertDirEmpty(t, dir)
}

func TestVisionHandler_RelaysMalformedReplyVerbatim(t *testing.T) {
	dir := t.TempDir()
	m := metrics.New()
	reply := "```json\n{\"type\": \"Brain coral\"\n```"
	h := NewVisionHandler(&stubDescriber{result: reply}, dir, 0, nil, m)

	rec := runVision(t, h, multipartRequest(t, "image", "reef.jpg", jpegBytes))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":`+quoteJSON(t, reply)+`}`, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VisionRequests.WithLabelValues(metrics.OutcomeMalformedReply)))
	assertDirEmpty(t, dir)
}

func TestVisionHandler_ModelFailure(t *testing.T) {
	dir := t.TempDir()
	m := metrics.New()
	h := NewVisionHandler(&stubDescriber{result: "partial output", err: errors.New("quota exceeded")}, dir, time.Second, nil, m)

	rec := runVision(t, h, multipartRequest(t, "image", "reef.jpg", jpegBytes))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Gemini API failed"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "partial output")
	assert.NotContains(t, rec.Body.String(), "quota")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VisionRequests.WithLabelValues(metrics.OutcomeError)))
	assertDirEmpty(t, dir)
}

func TestVisionHandler_TimeoutBoundsCall(t *testing.T) {
	dir := t.TempDir()
	h := NewVisionHandler(blockingDescriber{}, dir, 20*time.Millisecond, nil, nil)

	rec := runVision(t, h, multipartRequest(t, "image", "reef.jpg", jpegBytes))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assertDirEmpty(t, dir)
}

func TestVisionHandler_MissingFile(t *testing.T) {
	dir := t.TempDir()
	describer := &stubDescriber{result: coralReply}
	h := NewVisionHandler(describer, dir, time.Second, nil, nil)

	rec := runVision(t, h, multipartRequest(t, "photo", "reef.jpg", jpegBytes))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"image file is required"}`, rec.Body.String())
	assert.Zero(t, describer.calls)
}

func TestVisionHandler_NoMultipartBody(t *testing.T) {
	h := NewVisionHandler(&stubDescriber{}, t.TempDir(), time.Second, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/gemini/gemini", nil)

	rec := runVision(t, h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVisionHandler_RejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	describer := &stubDescriber{result: coralReply}
	h := NewVisionHandler(describer, dir, time.Second, nil, nil)

	rec := runVision(t, h, multipartRequest(t, "image", "notes.jpg", []byte("just some text, not a picture")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"uploaded file must be an image"}`, rec.Body.String())
	assert.Zero(t, describer.calls)
	assertDirEmpty(t, dir)
}

type blockingDescriber struct{}

func (blockingDescriber) DescribeCoral(ctx context.Context, image []byte, mimeType string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func quoteJSON(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}
