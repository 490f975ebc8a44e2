package models

import "fmt"

// MagnitudeType is the method used to compute a reported magnitude.
type MagnitudeType string

const (
	MagnitudeTypeLocal       MagnitudeType = "ml"
	MagnitudeTypeDuration    MagnitudeType = "md"
	MagnitudeTypeMoment      MagnitudeType = "mw"
	MagnitudeTypeBodyWave    MagnitudeType = "mb"
	MagnitudeTypeSurfaceWave MagnitudeType = "ms"
)

// MagnitudeTypes lists the accepted labels in the order they are offered to users.
var MagnitudeTypes = []MagnitudeType{
	MagnitudeTypeLocal,
	MagnitudeTypeDuration,
	MagnitudeTypeMoment,
	MagnitudeTypeBodyWave,
	MagnitudeTypeSurfaceWave,
}

func (t MagnitudeType) Description() string {
	switch t {
	case MagnitudeTypeLocal:
		return "Local"
	case MagnitudeTypeDuration:
		return "Duration"
	case MagnitudeTypeMoment:
		return "Moment"
	case MagnitudeTypeBodyWave:
		return "Body-wave"
	case MagnitudeTypeSurfaceWave:
		return "Surface-wave"
	default:
		return "Unknown"
	}
}

// Fields are the raw values collected from a user before encoding.
type Fields struct {
	Latitude  float64 `form:"latitude,default=0" json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `form:"longitude,default=0" json:"longitude" binding:"min=-180,max=180"`
	Depth     float64 `form:"depth,default=10" json:"depth" binding:"min=0"`
	MagType   string  `form:"mag_type,default=ml" json:"mag_type"`
	MagNst    int     `form:"mag_nst,default=10" json:"mag_nst" binding:"min=0"`
}

// DefaultFields returns the values a fresh form starts with.
func DefaultFields() Fields {
	return Fields{
		Latitude:  0.0,
		Longitude: 0.0,
		Depth:     10.0,
		MagType:   string(MagnitudeTypeLocal),
		MagNst:    10,
	}
}

// Feature positions inside a FeatureVector. The order matches the one the
// model was trained with and must not change.
const (
	FeatureLatitude = iota
	FeatureLongitude
	FeatureDepth
	FeatureMagType
	FeatureMagNst

	FeatureCount
)

// FeatureNames holds the training column name for each vector position.
var FeatureNames = [FeatureCount]string{"latitude", "longitude", "depth", "magType", "magNst"}

// FeatureVector is the fixed-order numeric input of the regression model.
type FeatureVector [FeatureCount]float64

func (v FeatureVector) Latitude() float64  { return v[FeatureLatitude] }
func (v FeatureVector) Longitude() float64 { return v[FeatureLongitude] }
func (v FeatureVector) Depth() float64     { return v[FeatureDepth] }
func (v FeatureVector) MagTypeCode() int   { return int(v[FeatureMagType]) }
func (v FeatureVector) StationCount() int  { return int(v[FeatureMagNst]) }

// Values returns a copy of the vector as a slice.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

func (v FeatureVector) String() string {
	return fmt.Sprintf("[%g, %g, %g, %d, %d]",
		v.Latitude(), v.Longitude(), v.Depth(), v.MagTypeCode(), v.StationCount())
}
