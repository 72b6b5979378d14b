package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/reportdesk/internal/report"
	"github.com/KaramelBytes/reportdesk/internal/session"
)

const salesCSV = "date,sales\n2024-01-01,10\n2024-01-02,20\n"

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T, mutate func(*Config)) *client {
	t.Helper()
	store, err := session.NewStore(8)
	require.NoError(t, err)
	cfg := Config{
		Report: report.DefaultOptions(),
		Now:    func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	srv := httptest.NewServer(New(store, cfg).Handler())
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.base + path)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(b)
}

func (c *client) upload(name, body string) (*http.Response, string) {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(c.t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	resp, err := c.http.Post(c.base+"/upload", mw.FormDataContentType(), &buf)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(b)
}

func TestIndexIssuesSessionCookie(t *testing.T) {
	c := newTestServer(t, nil)
	resp, body := c.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Upload a CSV or Excel file")
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
}

func TestUploadThenExportAndChart(t *testing.T) {
	c := newTestServer(t, nil)
	resp, body := c.upload("sales.csv", salesCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Read 2 rows from sales.csv.")
	assert.Contains(t, body, "15.00")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `href="/export"`)

	resp, csv := c.get("/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="report_20240506.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Equal(t, "date,sales,value_diff\n2024-01-01,10,-5\n2024-01-02,20,5\n", csv)

	resp, svg := c.get("/chart.svg")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, "<polyline")

	// The page keeps showing the cached result.
	_, body = c.get("/")
	assert.Contains(t, body, "15.00")
}

func TestFailedUploadKeepsPreviousResult(t *testing.T) {
	c := newTestServer(t, nil)
	resp, _ := c.upload("sales.csv", salesCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := c.upload("broken.csv", "a,b\n1,2\n3,4,5\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Upload failed")
	assert.Contains(t, body, "15.00", "previous overview is still rendered")

	resp, csv := c.get("/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, csv, "value_diff")
}

func TestUploadErrorStatuses(t *testing.T) {
	c := newTestServer(t, func(cfg *Config) { cfg.Report.Parse.MaxBytes = 32 })

	resp, _ := c.upload("notes.docx", "hello")
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp, _ = c.upload("empty.csv", "a,b\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := c.upload("big.csv", strings.Repeat("1,2\n", 40))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, body, "input exceeds 32 byte limit")

	resp, err := c.http.Post(c.base+"/upload", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNoNumericColumnDisablesExport(t *testing.T) {
	c := newTestServer(t, nil)
	resp, body := c.upload("names.csv", "name\na\nb\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No numeric column found")
	assert.NotContains(t, body, `href="/export"`)
	assert.NotContains(t, body, "<svg")

	resp, _ = c.get("/export")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = c.get("/chart.svg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClearForgetsSession(t *testing.T) {
	c := newTestServer(t, nil)
	c.upload("sales.csv", salesCSV)

	resp, err := c.http.Post(c.base+"/clear", "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "redirect is followed to the index")

	resp, _ = c.get("/export")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionsAreIsolated(t *testing.T) {
	a := newTestServer(t, nil)
	a.upload("sales.csv", salesCSV)

	other := &client{t: t, base: a.base, http: &http.Client{}}
	resp, _ := other.get("/export")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSizeLabel(t *testing.T) {
	assert.Equal(t, "100 MB", sizeLabel(100<<20))
	assert.Equal(t, "2 KB", sizeLabel(2048))
	assert.Equal(t, "32 bytes", sizeLabel(32))
	assert.Equal(t, "any size", sizeLabel(-1))
}
