package api

import (
	"time"

	"github.com/mr1hm/go-quake-magnitude/internal/encoder"
	"github.com/mr1hm/go-quake-magnitude/internal/models"
)

// ModelInfo describes the model behind the service on /health.
type ModelInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Kind    string `json:"kind"`
	Source  string `json:"source"`
}

type PredictionResponse struct {
	ID               string        `json:"id"`
	Magnitude        float64       `json:"magnitude"`
	DisplayMagnitude string        `json:"display_magnitude"`
	Tier             string        `json:"tier"`
	Message          string        `json:"message"`
	Style            string        `json:"style"`
	Icon             string        `json:"icon"`
	Features         []float64     `json:"features"`
	Input            models.Fields `json:"input"`
	CreatedAt        time.Time     `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

type RecordResponse struct {
	ID        string        `json:"id"`
	Input     models.Fields `json:"input"`
	Features  []float64     `json:"features"`
	Magnitude float64       `json:"magnitude"`
	Tier      string        `json:"tier"`
	Model     string        `json:"model,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type MagnitudeTypeResponse struct {
	Label       string `json:"label"`
	Code        int    `json:"code"`
	Description string `json:"description"`
}

func NewPredictionResponse(out models.Outcome) PredictionResponse {
	r := out.Result
	return PredictionResponse{
		ID:               r.ID,
		Magnitude:        r.Magnitude,
		DisplayMagnitude: r.DisplayMagnitude(),
		Tier:             string(r.Tier),
		Message:          r.Message,
		Style:            string(r.Style),
		Icon:             r.Icon,
		Features:         r.Vector.Values(),
		Input:            out.Fields,
		CreatedAt:        r.CreatedAt,
	}
}

func NewErrorResponse(f *models.Failure) ErrorResponse {
	return ErrorResponse{
		Error: f.Message,
		Kind:  string(f.Kind),
		Hint:  f.Hint,
	}
}

func toRecordResponses(records []models.PredictionRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, RecordResponse{
			ID:        rec.ID,
			Input:     rec.Fields,
			Features:  rec.Vector.Values(),
			Magnitude: rec.Magnitude,
			Tier:      string(rec.Tier),
			Model:     rec.ModelName,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out
}

func magnitudeTypes() []MagnitudeTypeResponse {
	out := make([]MagnitudeTypeResponse, 0, len(models.MagnitudeTypes))
	for _, mt := range models.MagnitudeTypes {
		code, _ := encoder.MagnitudeTypeCode(string(mt))
		out = append(out, MagnitudeTypeResponse{
			Label:       string(mt),
			Code:        code,
			Description: mt.Description(),
		})
	}
	return out
}
