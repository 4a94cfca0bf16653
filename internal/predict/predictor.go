package predict

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/strrl/triage/internal/clinical"
)

// ErrNoOutput is returned when the model produced no diagnosis label.
var ErrNoOutput = errors.New("predictor returned no diagnosis")

type Request struct {
	FeaturePath string
	Features    clinical.FeatureVector
}

// Predictor turns an encoded feature vector into a diagnosis label.
type Predictor interface {
	Predict(ctx context.Context, req Request) (string, error)
}

type Gateway struct {
	predictor Predictor
	log       *logrus.Entry
}

func NewGateway(p Predictor, log *logrus.Entry) *Gateway {
	return &Gateway{
		predictor: p,
		log:       log,
	}
}

// Diagnose always returns a usable label. When the predictor fails the label
// is clinical.UnknownDiagnosis and the error says why.
func (g *Gateway) Diagnose(ctx context.Context, req Request) (string, error) {
	label, err := g.predictor.Predict(ctx, req)
	if err == nil && label == "" {
		err = ErrNoOutput
	}
	if err != nil {
		g.log.WithError(err).WithField("feature_file", req.FeaturePath).Warn("prediction failed, using sentinel diagnosis")
		return clinical.UnknownDiagnosis, err
	}

	g.log.WithField("diagnosis", label).Debug("prediction received")
	return label, nil
}

// firstLine returns the first line of out with trailing whitespace removed.
func firstLine(out string) string {
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimRightFunc(line, unicode.IsSpace)
}
