package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/strrl/triage/internal/clinical"
	"github.com/strrl/triage/internal/features"
	"github.com/strrl/triage/internal/predict"
	"github.com/strrl/triage/internal/prompt"
)

type Stage string

const (
	StageCollectIdentity Stage = "collect_identity"
	StageCollectFeatures Stage = "collect_features"
	StageEncode          Stage = "encode"
	StagePredict         Stage = "predict"
	StageAdvise          Stage = "advise"
	StagePersist         Stage = "persist"
	StageDone            Stage = "done"
)

// FeatureWriter persists the encoded vector where the predictor can read it.
type FeatureWriter interface {
	Write(v clinical.FeatureVector) error
	Path() string
}

type Recorder interface {
	Append(e clinical.Encounter) error
}

type Advisor interface {
	Recommend(diagnosis string) (string, bool)
}

type Deps struct {
	Prompts  *prompt.Reader
	Features FeatureWriter
	Gateway  *predict.Gateway
	Advisor  Advisor
	Ledger   Recorder
	Out      io.Writer
	Log      *logrus.Entry
}

// Session runs one encounter: identity, answers, encoding, prediction,
// advice, and finally a ledger append.
type Session struct {
	deps Deps
	now  func() time.Time
}

func New(d Deps) *Session {
	return &Session{
		deps: d,
		now:  time.Now,
	}
}

type Result struct {
	Encounter clinical.Encounter
	// Stages lists every stage entered, in order.
	Stages []Stage
	// Skipped is true when prediction was not attempted because the
	// feature file could not be written.
	Skipped   bool
	Persisted bool
	Errors    []error
}

// Run drives a single session. It returns an error only when operator input
// ends before every answer was collected; nothing is persisted in that case.
// All later failures are reported on the console and folded into the result.
func (s *Session) Run(ctx context.Context) (Result, error) {
	var res Result
	id := uuid.New()
	log := s.deps.Log.WithField("encounter_id", id.String())

	enter := func(st Stage) {
		res.Stages = append(res.Stages, st)
		log.WithField("stage", st).Debug("entering stage")
	}
	fail := func(format string, err error) {
		res.Errors = append(res.Errors, err)
		fmt.Fprintf(s.deps.Out, format+"\n", err)
	}

	enter(StageCollectIdentity)
	name, err := s.deps.Prompts.Text("patient's name")
	if err != nil {
		return res, fmt.Errorf("failed to collect patient identity: %w", err)
	}

	enter(StageCollectFeatures)
	answers, err := s.deps.Prompts.Answers()
	if err != nil {
		return res, fmt.Errorf("failed to collect clinical answers: %w", err)
	}

	enter(StageEncode)
	vec := features.Encode(answers)
	diagnosis := clinical.UnknownDiagnosis
	if err := s.deps.Features.Write(vec); err != nil {
		log.WithError(err).Error("feature file not written, skipping prediction")
		fail("Error writing input features: %v", err)
		res.Skipped = true
	} else {
		enter(StagePredict)
		fmt.Fprintln(s.deps.Out, "Retrieving diagnosis...")
		label, err := s.deps.Gateway.Diagnose(ctx, predict.Request{
			FeaturePath: s.deps.Features.Path(),
			Features:    vec,
		})
		if err != nil {
			fail("Error obtaining prediction: %v", err)
		}
		diagnosis = label
	}

	enter(StageAdvise)
	medication, _ := s.deps.Advisor.Recommend(diagnosis)
	fmt.Fprintf(s.deps.Out, "Predicted diagnosis: %s\n", diagnosis)
	if medication == "" {
		fmt.Fprintln(s.deps.Out, "Recommended medication: no recommendation available")
	} else {
		fmt.Fprintf(s.deps.Out, "Recommended medication: %s\n", medication)
	}

	res.Encounter = clinical.Encounter{
		ID:         id,
		Name:       name,
		Answers:    answers,
		Features:   vec,
		Diagnosis:  diagnosis,
		Medication: medication,
		RecordedAt: s.now(),
	}

	enter(StagePersist)
	if err := s.deps.Ledger.Append(res.Encounter); err != nil {
		log.WithError(err).Error("encounter not recorded")
		fail("Error saving encounter: %v", err)
	} else {
		res.Persisted = true
	}

	enter(StageDone)
	log.WithFields(logrus.Fields{
		"diagnosis": diagnosis,
		"persisted": res.Persisted,
	}).Info("encounter complete")

	return res, nil
}
