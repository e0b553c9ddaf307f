package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/planbiir/gpxedit/internal/config"
	"github.com/planbiir/gpxedit/internal/editor"
	"github.com/planbiir/gpxedit/internal/export"
	"github.com/planbiir/gpxedit/internal/gpx"
	"github.com/planbiir/gpxedit/internal/track"
)

// Handler handles HTTP requests against the current document
type Handler struct {
	editor *editor.Editor
	cfg    config.Config
}

// NewHandler creates a new document handler
func NewHandler(ed *editor.Editor, cfg config.Config) *Handler {
	return &Handler{
		editor: ed,
		cfg:    cfg,
	}
}

type selectionRequest struct {
	Start *int `json:"start" binding:"required"`
	End   *int `json:"end" binding:"required"`
}

type warpRequest struct {
	Alpha *float64 `json:"alpha" binding:"required"`
}

type heartRateRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// UploadDocument handles POST /api/v1/document. The GPX text is either the
// raw body or a multipart "file" field.
func (h *Handler) UploadDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)

	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			Fail(c, fmt.Errorf("%w: read upload: %w", gpx.ErrMalformedInput, err))
			return
		}
		f, err := fh.Open()
		if err != nil {
			Fail(c, fmt.Errorf("open upload: %w", err))
			return
		}
		defer f.Close()
		body = f
	}

	data, err := io.ReadAll(body)
	if err != nil {
		Fail(c, fmt.Errorf("%w: read upload: %w", gpx.ErrMalformedInput, err))
		return
	}

	state, err := h.editor.Load(bytes.NewReader(data))
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, state)
}

// DownloadDocument handles GET /api/v1/document
func (h *Handler) DownloadDocument(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.editor.WriteGPX(&buf); err != nil {
		Fail(c, err)
		return
	}

	attachment(c, h.cfg.DownloadName)
	c.Data(http.StatusOK, "application/gpx+xml", buf.Bytes())
}

// GetPoints handles GET /api/v1/points
func (h *Handler) GetPoints(c *gin.Context) {
	onlySelection, err := strconv.ParseBool(c.DefaultQuery("selection", "false"))
	if err != nil {
		BadRequest(c, "Invalid selection parameter")
		return
	}

	if !onlySelection {
		if !h.editor.Loaded() {
			Fail(c, editor.ErrNoDocument)
			return
		}
		Success(c, h.editor.State())
		return
	}

	points, err := h.editor.SelectedPoints()
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{
		"points": points,
		"count":  len(points),
	})
}

// PutSelection handles PUT /api/v1/selection
func (h *Handler) PutSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid selection body")
		return
	}

	r := track.Range{Start: *req.Start, End: *req.End}
	if err := h.editor.Select(r); err != nil {
		Fail(c, err)
		return
	}

	Success(c, r)
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.editor.Stats()
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, stats)
}

// PostWarp handles POST /api/v1/warp
func (h *Handler) PostWarp(c *gin.Context) {
	var req warpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid warp body")
		return
	}

	state, err := h.editor.WarpSpeed(*req.Alpha)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, state)
}

// PostHeartRate handles POST /api/v1/heart-rate
func (h *Handler) PostHeartRate(c *gin.Context) {
	var req heartRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid heart rate body")
		return
	}

	state, err := h.editor.AdjustHeartRate(*req.Delta)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, state)
}

// PostResample handles POST /api/v1/resample
func (h *Handler) PostResample(c *gin.Context) {
	state, err := h.editor.Resample()
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, state)
}

// ExportCSV handles GET /api/v1/export.csv
func (h *Handler) ExportCSV(c *gin.Context) {
	if !h.editor.Loaded() {
		Fail(c, editor.ErrNoDocument)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, h.editor.Points()); err != nil {
		Fail(c, err)
		return
	}

	attachment(c, exportName(h.cfg.DownloadName, ".csv"))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportParquet handles GET /api/v1/export.parquet
func (h *Handler) ExportParquet(c *gin.Context) {
	if !h.editor.Loaded() {
		Fail(c, editor.ErrNoDocument)
		return
	}

	data, err := export.MarshalParquet(h.editor.Points())
	if err != nil {
		Fail(c, err)
		return
	}

	attachment(c, exportName(h.cfg.DownloadName, ".parquet"))
	c.Data(http.StatusOK, "application/vnd.apache.parquet", data)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func exportName(downloadName, ext string) string {
	base := strings.TrimSuffix(downloadName, ".gpx")
	if base == "" {
		base = "points"
	}
	return base + ext
}
