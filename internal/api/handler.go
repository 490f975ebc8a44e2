package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-quake-magnitude/internal/encoder"
	"github.com/mr1hm/go-quake-magnitude/internal/models"
	"github.com/mr1hm/go-quake-magnitude/internal/prediction"
	"github.com/mr1hm/go-quake-magnitude/internal/repository"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxHistoryLimit = 500

type Handler struct {
	svc          *prediction.Service
	model        ModelInfo
	historyLimit int
	gatherer     prometheus.Gatherer
}

type HandlerOption func(*Handler)

// WithHistoryLimit sets the default page size of /api/predictions.
func WithHistoryLimit(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.historyLimit = n
		}
	}
}

// WithGatherer serves g on /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) HandlerOption {
	return func(h *Handler) { h.gatherer = g }
}

func NewHandler(svc *prediction.Service, model ModelInfo, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:          svc,
		model:        model,
		historyLimit: 20,
		gatherer:     prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", h.index)
	r.POST("/", h.submit)
	r.POST("/api/predict", h.predict)
	r.GET("/api/scale", h.scale)
	r.GET("/api/magnitude-types", h.magnitudeTypes)
	r.GET("/api/predictions", h.getPredictions)
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}

type magnitudeTypeOption struct {
	Label    string
	Selected bool
}

type pageData struct {
	Fields         models.Fields
	EncodedMagType string
	MagnitudeTypes []magnitudeTypeOption
	Result         *models.PredictionResult
	Failure        *models.Failure
	Scale          []models.ScaleEntry
}

func newPageData(f models.Fields) pageData {
	opts := make([]magnitudeTypeOption, 0, len(models.MagnitudeTypes))
	for _, mt := range models.MagnitudeTypes {
		opts = append(opts, magnitudeTypeOption{Label: string(mt), Selected: string(mt) == f.MagType})
	}

	encoded := "-"
	if code, err := encoder.MagnitudeTypeCode(f.MagType); err == nil {
		encoded = strconv.Itoa(code)
	}

	return pageData{
		Fields:         f,
		EncodedMagType: encoded,
		MagnitudeTypes: opts,
		Scale:          models.ReferenceScale,
	}
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", newPageData(models.DefaultFields()))
}

// submit handles the HTML form. The page is always rendered with 200; the
// outcome is shown inline the way the form reports it.
func (h *Handler) submit(c *gin.Context) {
	f := models.DefaultFields()
	if err := c.ShouldBind(&f); err != nil && !isValidationError(err) {
		data := newPageData(f)
		data.Failure = &models.Failure{
			Kind:    models.ErrorKindInvalidInput,
			Message: "Invalid input: " + err.Error(),
			Hint:    "Please check your input values",
		}
		c.HTML(http.StatusOK, "index.html", data)
		return
	}

	out := h.svc.Predict(c.Request.Context(), f)

	data := newPageData(out.Fields)
	data.Result = out.Result
	data.Failure = out.Failure
	c.HTML(http.StatusOK, "index.html", data)
}

func (h *Handler) predict(c *gin.Context) {
	f := models.DefaultFields()
	// Range violations are reported by the service with field names users
	// recognise, so only decoding errors stop here.
	if err := c.ShouldBindJSON(&f); err != nil && !isValidationError(err) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Kind:  string(models.ErrorKindInvalidInput),
		})
		return
	}

	out := h.svc.Predict(c.Request.Context(), f)
	if !out.OK() {
		c.JSON(statusFor(out.Failure.Kind), NewErrorResponse(out.Failure))
		return
	}

	c.JSON(http.StatusOK, NewPredictionResponse(out))
}

func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.ErrorKindInference:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func (h *Handler) scale(c *gin.Context) {
	c.JSON(http.StatusOK, models.ReferenceScale)
}

func (h *Handler) magnitudeTypes(c *gin.Context) {
	c.JSON(http.StatusOK, magnitudeTypes())
}

func (h *Handler) getPredictions(c *gin.Context) {
	filter := repository.Filter{
		Limit: h.historyLimit,
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxHistoryLimit {
			filter.Limit = lim
		}
	}
	if o := c.Query("offset"); o != "" {
		if off, err := strconv.Atoi(o); err == nil && off >= 0 {
			filter.Offset = off
		}
	}
	if m := c.Query("min_magnitude"); m != "" {
		if mag, err := strconv.ParseFloat(m, 64); err == nil {
			filter.MinMagnitude = &mag
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if t := c.Query("tier"); t != "" {
		if tier, ok := parseTier(t); ok {
			filter.Tier = &tier
		}
	}

	records, err := h.svc.Recent(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to fetch predictions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history_enabled": h.svc.HistoryEnabled(),
		"predictions":     toRecordResponses(records),
	})
}

func parseTier(s string) (models.SeverityTier, bool) {
	for _, e := range models.ReferenceScale {
		if string(e.Tier) == s {
			return e.Tier, true
		}
	}
	return "", false
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"model":   h.model,
		"history": h.svc.HistoryEnabled(),
	})
}
