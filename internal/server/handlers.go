package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"maragu.dev/gomponents"

	"github.com/KaramelBytes/reportdesk/internal/analysis"
	"github.com/KaramelBytes/reportdesk/internal/export"
	"github.com/KaramelBytes/reportdesk/internal/parser"
	"github.com/KaramelBytes/reportdesk/internal/render"
	"github.com/KaramelBytes/reportdesk/internal/report"
)

// multipartSlack covers boundaries and part headers on top of the file bound.
const multipartSlack = 1 << 20

type flash struct {
	err    string
	notice string
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

// sessionID returns the caller's session id, issuing a new cookie when absent
// or malformed.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if c, err := r.Cookie(CookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id
		}
	}
	id := s.store.New()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (uuid.UUID, *report.Result) {
	id := s.sessionID(w, r)
	res, _ := s.store.Load(id)
	return id, res
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, res := s.load(w, r)
	renderHTML(w, http.StatusOK, render.ReportPage(s.view(res, flash{})))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, prev := s.load(w, r)
	limit := s.cfg.Report.Parse.MaxBytes
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)
	}

	res, err := s.readUpload(r)
	if err != nil {
		status := uploadStatus(err)
		s.log.Warn("upload rejected", "session", id, "status", status, "error", err)
		renderHTML(w, status, render.ReportPage(s.view(prev, flash{err: uploadMessage(err)})))
		return
	}
	s.store.Replace(id, res)
	attrs := []any{"session", id, "file", res.Name, "rows", res.Table.Len()}
	if col, ok := res.Selection.Numeric(); ok {
		attrs = append(attrs, "numeric", col, "mean", res.Enriched.Mean)
	}
	if col, ok := res.Selection.Temporal(); ok {
		attrs = append(attrs, "temporal", col)
	}
	s.log.Info("upload analyzed", attrs...)

	notice := fmt.Sprintf("Read %d rows from %s.", res.Table.Len(), res.Name)
	renderHTML(w, http.StatusOK, render.ReportPage(s.view(res, flash{notice: notice})))
}

func (s *Server) readUpload(r *http.Request) (*report.Result, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: expected a multipart form upload", errBadForm)
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil, fmt.Errorf("%w: no file field in form", errBadForm)
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		name := filepath.Base(part.FileName())
		if name == "" || name == "." {
			return nil, fmt.Errorf("%w: no file selected", errBadForm)
		}
		defer part.Close()
		return report.Load(name, part, s.cfg.Report)
	}
}

var errBadForm = errors.New("bad upload form")

func uploadStatus(err error) int {
	var tooLarge *parser.TooLargeError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, parser.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, errBadForm),
		errors.Is(err, parser.ErrEmptyInput),
		errors.Is(err, analysis.ErrInvalidColumn):
		return http.StatusBadRequest
	}
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func uploadMessage(err error) string {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return "Upload failed: request body too large."
	}
	return "Upload failed: " + err.Error()
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	_, res := s.load(w, r)
	if res == nil {
		http.Error(w, "nothing uploaded yet", http.StatusNotFound)
		return
	}
	if !res.Exportable() {
		http.Error(w, analysis.ErrNoNumericColumn.Error(), http.StatusConflict)
		return
	}
	b, err := export.Bytes(res.Enriched)
	if err != nil {
		s.log.Error("export failed", "file", res.Name, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(s.cfg.Now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	_, res := s.load(w, r)
	if res == nil || res.Series == nil {
		http.Error(w, "no chart available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if err := render.WriteSVG(w, res.Series, render.DefaultChartOptions()); err != nil {
		s.log.Warn("chart write failed", "error", err)
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	s.store.Clear(id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) view(res *report.Result, f flash) render.PageView {
	v := render.PageView{
		Title:      "Report desk",
		Error:      f.err,
		Notice:     f.notice,
		UploadHref: "/upload",
		ClearHref:  "/clear",
		MaxUpload:  sizeLabel(s.cfg.Report.Parse.MaxBytes),
	}
	if res == nil {
		return v
	}
	ov := res.Overview
	v.Overview = &ov
	v.Series = res.Series

	var warnings []string
	if err := res.Warning(); err != nil {
		warnings = append(warnings, strings.ToUpper(err.Error()[:1])+err.Error()[1:]+".")
	}
	if res.Enriched != nil {
		warnings = append(warnings, res.Enriched.Warnings...)
	}
	if res.PlotErr != nil {
		warnings = append(warnings, "Chart unavailable: "+res.PlotErr.Error())
	}
	v.Warning = strings.Join(warnings, " ")
	if res.Exportable() {
		v.ExportHref = "/export"
		v.ExportName = export.Filename(s.cfg.Now())
	}
	return v
}

func sizeLabel(n int64) string {
	switch {
	case n < 0:
		return "any size"
	case n >= 1<<20:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
