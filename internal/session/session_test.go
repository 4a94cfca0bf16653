package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/triage/internal/clinical"
	"github.com/strrl/triage/internal/features"
	"github.com/strrl/triage/internal/ledger"
	"github.com/strrl/triage/internal/medication"
	"github.com/strrl/triage/internal/predict"
	"github.com/strrl/triage/internal/prompt"
)

const janeDoeInput = "Jane Doe\n34\nfemale\nyes\nno\nyes\nno\nno\n"

type harness struct {
	dir         string
	featurePath string
	ledgerPath  string
	out         *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	return &harness{
		dir:         dir,
		featurePath: filepath.Join(dir, "input_features.json"),
		ledgerPath:  filepath.Join(dir, "patient_data.csv"),
		out:         &bytes.Buffer{},
	}
}

func discardLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func (h *harness) session(input string, p predict.Predictor) *Session {
	return New(Deps{
		Prompts:  prompt.NewReader(strings.NewReader(input), h.out),
		Features: features.NewWriter(h.featurePath),
		Gateway:  predict.NewGateway(p, discardLog()),
		Advisor:  medication.NewAdvisor(medication.DefaultRules()),
		Ledger:   ledger.New(h.ledgerPath),
		Out:      h.out,
		Log:      discardLog(),
	})
}

func (h *harness) ledgerLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(h.ledgerPath)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func shellPredictor(t *testing.T, script string) predict.Predictor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predict.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	p, err := predict.NewCommandPredictor(predict.CommandConfig{Command: []string{"/bin/sh", path}}, discardLog())
	require.NoError(t, err)
	return p
}

type recordingPredictor struct {
	label    string
	err      error
	requests []predict.Request
}

func (r *recordingPredictor) Predict(_ context.Context, req predict.Request) (string, error) {
	r.requests = append(r.requests, req)
	return r.label, r.err
}

func TestRun_FluEncounter(t *testing.T) {
	h := newHarness(t)
	// The script checks it was handed the feature file holding the encoded vector.
	p := shellPredictor(t, `test "$(cat "$1")" = "[34, 1, 1, 0, 1, 0, 0]" && echo Flu`)

	res, err := h.session(janeDoeInput, p).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Flu", res.Encounter.Diagnosis)
	assert.Equal(t, "Tamiflu, Relenza, Rapivab.", res.Encounter.Medication)
	assert.Equal(t, clinical.FeatureVector{34, 1, 1, 0, 1, 0, 0}, res.Encounter.Features)
	assert.True(t, res.Persisted)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []Stage{
		StageCollectIdentity, StageCollectFeatures, StageEncode, StagePredict, StageAdvise, StagePersist, StageDone,
	}, res.Stages)

	data, err := os.ReadFile(h.featurePath)
	require.NoError(t, err)
	assert.Equal(t, "[34, 1, 1, 0, 1, 0, 0]\n", string(data))

	assert.Equal(t, []string{ledger.Header, "Jane Doe,34,0,0,1,1,1,0,Flu"}, h.ledgerLines(t))
	assert.Contains(t, h.out.String(), "Predicted diagnosis: Flu")
	assert.Contains(t, h.out.String(), "Recommended medication: Tamiflu, Relenza, Rapivab.")
}

func TestRun_PredictorFailsToStart(t *testing.T) {
	h := newHarness(t)
	p, err := predict.NewCommandPredictor(predict.CommandConfig{
		Command: []string{filepath.Join(h.dir, "missing-predictor")},
	}, discardLog())
	require.NoError(t, err)

	res, err := h.session(janeDoeInput, p).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, clinical.UnknownDiagnosis, res.Encounter.Diagnosis)
	assert.Empty(t, res.Encounter.Medication)
	assert.True(t, res.Persisted)
	require.Len(t, res.Errors, 1)

	assert.Equal(t, []string{ledger.Header, "Jane Doe,34,0,0,1,1,1,0,Unknown Diagnosis"}, h.ledgerLines(t))
	assert.Contains(t, h.out.String(), "Error obtaining prediction")
	assert.Contains(t, h.out.String(), "Recommended medication: no recommendation available")
}

func TestRun_LedgerCreatedWithTwoLines(t *testing.T) {
	h := newHarness(t)
	_, err := os.Stat(h.ledgerPath)
	require.True(t, errors.Is(err, os.ErrNotExist))

	_, err = h.session(janeDoeInput, &recordingPredictor{label: "Bronchitis"}).Run(context.Background())
	require.NoError(t, err)

	lines := h.ledgerLines(t)
	require.Len(t, lines, 2)
	assert.Equal(t, ledger.Header, lines[0])
	assert.Equal(t, "Jane Doe,34,0,0,1,1,1,0,Bronchitis", lines[1])

	_, err = h.session(janeDoeInput, &recordingPredictor{label: "Pneumonia"}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.ledgerLines(t), 3)
}

func TestRun_UnmappedDiagnosis(t *testing.T) {
	h := newHarness(t)

	res, err := h.session(janeDoeInput, &recordingPredictor{label: "Common Cold"}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Common Cold", res.Encounter.Diagnosis)
	assert.Empty(t, res.Encounter.Medication)
	assert.Empty(t, res.Errors)
}

func TestRun_FeatureFileUnwritableSkipsPrediction(t *testing.T) {
	h := newHarness(t)
	h.featurePath = filepath.Join(h.dir, "no-such-dir", "input_features.json")
	p := &recordingPredictor{label: "Flu"}

	res, err := h.session(janeDoeInput, p).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, p.requests)
	assert.True(t, res.Skipped)
	assert.NotContains(t, res.Stages, StagePredict)
	assert.Equal(t, clinical.UnknownDiagnosis, res.Encounter.Diagnosis)
	assert.True(t, res.Persisted)
	assert.Contains(t, h.out.String(), "Error writing input features")
	assert.Equal(t, "Jane Doe,34,0,0,1,1,1,0,Unknown Diagnosis", h.ledgerLines(t)[1])
}

func TestRun_LedgerUnwritable(t *testing.T) {
	h := newHarness(t)
	h.ledgerPath = filepath.Join(h.dir, "no-such-dir", "patient_data.csv")

	res, err := h.session(janeDoeInput, &recordingPredictor{label: "Flu"}).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Persisted)
	assert.Equal(t, StageDone, res.Stages[len(res.Stages)-1])
	require.Len(t, res.Errors, 1)
	assert.Contains(t, h.out.String(), "Error saving encounter")
}

func TestRun_RetriesDoNotChangeAnswers(t *testing.T) {
	h := newHarness(t)
	input := "Jane Doe\nthirty-four\n34\nf\nfemale\nyep\nyes\nno\nYES\nnah\nno\nNo\n"
	p := &recordingPredictor{label: "Flu"}

	res, err := h.session(input, p).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, p.requests, 1)
	assert.Equal(t, clinical.FeatureVector{34, 1, 1, 0, 1, 0, 0}, p.requests[0].Features)
	assert.Equal(t, h.featurePath, p.requests[0].FeaturePath)
	assert.Equal(t, "Jane Doe,34,0,0,1,1,1,0,Flu", ledger.FormatRow(res.Encounter))
}

func TestRun_InputClosedPersistsNothing(t *testing.T) {
	h := newHarness(t)

	_, err := h.session("Jane Doe\n34\n", &recordingPredictor{label: "Flu"}).Run(context.Background())
	require.ErrorIs(t, err, prompt.ErrInputClosed)

	_, statErr := os.Stat(h.ledgerPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}
