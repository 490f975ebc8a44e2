// Package encoder turns raw earthquake fields into the feature vector the
// magnitude model was trained on.
package encoder

import (
	"errors"
	"fmt"

	"github.com/mr1hm/go-quake-magnitude/internal/models"
)

// ErrUnknownMagnitudeType is returned for labels outside the fixed set.
var ErrUnknownMagnitudeType = errors.New("unknown magnitude type")

// Same mapping as training. Not configurable.
var magnitudeTypeCodes = map[models.MagnitudeType]int{
	models.MagnitudeTypeLocal:       0,
	models.MagnitudeTypeDuration:    1,
	models.MagnitudeTypeMoment:      2,
	models.MagnitudeTypeBodyWave:    3,
	models.MagnitudeTypeSurfaceWave: 4,
}

// MagnitudeTypeCode looks up the integer code of a magnitude type label.
func MagnitudeTypeCode(label string) (int, error) {
	code, ok := magnitudeTypeCodes[models.MagnitudeType(label)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMagnitudeType, label)
	}
	return code, nil
}

// Encode builds the vector [latitude, longitude, depth, magTypeCode, stationCount].
// Ranges are not checked here.
func Encode(latitude, longitude, depth float64, magType string, stationCount int) (models.FeatureVector, error) {
	code, err := MagnitudeTypeCode(magType)
	if err != nil {
		return models.FeatureVector{}, err
	}

	var v models.FeatureVector
	v[models.FeatureLatitude] = latitude
	v[models.FeatureLongitude] = longitude
	v[models.FeatureDepth] = depth
	v[models.FeatureMagType] = float64(code)
	v[models.FeatureMagNst] = float64(stationCount)
	return v, nil
}

// EncodeFields is Encode applied to a form submission.
func EncodeFields(f models.Fields) (models.FeatureVector, error) {
	return Encode(f.Latitude, f.Longitude, f.Depth, f.MagType, f.MagNst)
}
