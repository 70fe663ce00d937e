package service

import (
	"testing"
	"time"

	"backend/internal/classifier"
	"backend/internal/models"
	"backend/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func trainedRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	modelRepo := newFakeModelVersionRepo()
	reg := registry.New(modelRepo, zap.NewNop())

	model := classifier.Train([]models.TrainingSample{
		{Text: "WIN FREE CASH NOW claim your prize", Label: models.LabelSpam},
		{Text: "free cash prize winner claim now", Label: models.LabelSpam},
		{Text: "congratulations you won free money click here", Label: models.LabelSpam},
		{Text: "urgent claim your free prize cash reward", Label: models.LabelSpam},
		{Text: "lunch meeting tomorrow at noon", Label: models.LabelHam},
		{Text: "please review the attached quarterly report", Label: models.LabelHam},
		{Text: "are we still on for dinner tonight", Label: models.LabelHam},
		{Text: "thanks for the update see you monday", Label: models.LabelHam},
	}, 3000)

	mv := &models.ModelVersion{
		Version:  "20250601_120000",
		Status:   models.ModelStatusReady,
		Accuracy: 0.97,
	}
	require.NoError(t, modelRepo.Create(mv))
	require.NoError(t, reg.Promote(mv, model, time.Time{}))
	return reg
}

func TestAnalyzeEmptyText(t *testing.T) {
	svc := NewAnalysisService(trainedRegistry(t), newFakeSpamLogRepo(), 0.5, zap.NewNop())

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Analyze(1, text)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", text)
	}
}

func TestAnalyzeWithoutActiveModel(t *testing.T) {
	reg := registry.New(newFakeModelVersionRepo(), zap.NewNop())
	svc := NewAnalysisService(reg, newFakeSpamLogRepo(), 0.5, zap.NewNop())

	_, err := svc.Analyze(1, "some email text")
	assert.ErrorIs(t, err, registry.ErrNoModelAvailable)
}

func TestAnalyzeSpamRecordsLog(t *testing.T) {
	spamLogs := newFakeSpamLogRepo()
	svc := NewAnalysisService(trainedRegistry(t), spamLogs, 0.5, zap.NewNop())

	result, err := svc.Analyze(7, "WIN FREE CASH NOW!!!")
	require.NoError(t, err)

	assert.True(t, result.IsSpam)
	assert.Equal(t, models.LabelSpam, result.Result)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)
	assert.Equal(t, "20250601_120000", result.ModelVersion)

	entry, err := spamLogs.GetByID(result.LogID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, "WIN FREE CASH NOW!!!", entry.EmailText)
	assert.Equal(t, result.Result, entry.Result)
	assert.Equal(t, result.Confidence, entry.Confidence)
	assert.Equal(t, result.ModelVersion, entry.ModelVersion)
	assert.Nil(t, entry.IsCorrect, "a fresh prediction has no feedback yet")
}

func TestAnalyzeHam(t *testing.T) {
	svc := NewAnalysisService(trainedRegistry(t), newFakeSpamLogRepo(), 0.5, zap.NewNop())

	result, err := svc.Analyze(1, "see you at the meeting tomorrow")
	require.NoError(t, err)
	assert.False(t, result.IsSpam)
	assert.Equal(t, models.LabelHam, result.Result)
}

func TestStatsScopedToUser(t *testing.T) {
	spamLogs := newFakeSpamLogRepo()
	svc := NewAnalysisService(trainedRegistry(t), spamLogs, 0.5, zap.NewNop())

	_, err := svc.Analyze(1, "WIN FREE CASH NOW claim your prize")
	require.NoError(t, err)
	_, err = svc.Analyze(2, "lunch meeting tomorrow at noon")
	require.NoError(t, err)

	userID := int64(1)
	stats, err := svc.Stats(&userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalAnalyses)

	all, err := svc.Stats(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalAnalyses)
}
