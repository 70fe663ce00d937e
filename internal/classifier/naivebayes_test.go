package classifier

import (
	"path/filepath"
	"testing"

	"backend/internal/models"
)

func trainingCorpus() []models.TrainingSample {
	return []models.TrainingSample{
		{Text: "WIN FREE CASH NOW claim your prize", Label: models.LabelSpam},
		{Text: "free cash prize winner claim now", Label: models.LabelSpam},
		{Text: "congratulations you won free money click here", Label: models.LabelSpam},
		{Text: "urgent claim your free prize cash reward", Label: models.LabelSpam},
		{Text: "win big money now free entry", Label: models.LabelSpam},
		{Text: "lunch meeting tomorrow at noon", Label: models.LabelHam},
		{Text: "please review the attached quarterly report", Label: models.LabelHam},
		{Text: "are we still on for dinner tonight", Label: models.LabelHam},
		{Text: "the project deadline moved to friday", Label: models.LabelHam},
		{Text: "thanks for the update see you monday", Label: models.LabelHam},
	}
}

func TestPredictSpamSkewedInput(t *testing.T) {
	m := Train(trainingCorpus(), 3000)

	pred := m.Predict("WIN FREE CASH NOW!!!", 0.5)
	if pred.Label != models.LabelSpam {
		t.Fatalf("Predict() label = %q, want spam", pred.Label)
	}
	if pred.Confidence < 0.5 {
		t.Fatalf("Predict() confidence = %f, want >= 0.5", pred.Confidence)
	}
}

func TestPredictHam(t *testing.T) {
	m := Train(trainingCorpus(), 3000)

	pred := m.Predict("see you at the meeting tomorrow", 0.5)
	if pred.Label != models.LabelHam {
		t.Fatalf("Predict() label = %q, want ham", pred.Label)
	}
}

func TestPredictDeterministic(t *testing.T) {
	m := Train(trainingCorpus(), 3000)

	first := m.Predict("free prize cash", 0.5)
	for i := 0; i < 10; i++ {
		again := m.Predict("free prize cash", 0.5)
		if again != first {
			t.Fatalf("Predict() not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestPredictConfidenceBounds(t *testing.T) {
	m := Train(trainingCorpus(), 3000)

	for _, text := range []string{"free cash", "meeting report", "xyzzy unknown words", ""} {
		pred := m.Predict(text, 0.5)
		if pred.Confidence < 0 || pred.Confidence > 1 {
			t.Fatalf("Predict(%q) confidence = %f out of [0,1]", text, pred.Confidence)
		}
	}
}

func TestVocabularyCap(t *testing.T) {
	m := Train(trainingCorpus(), 5)
	if m.VocabularySize != 5 {
		t.Fatalf("VocabularySize = %d, want 5", m.VocabularySize)
	}
}

func TestEvaluate(t *testing.T) {
	corpus := trainingCorpus()
	m := Train(corpus, 3000)

	acc := Evaluate(m, corpus, 0.5)
	if acc < 0.9 {
		t.Fatalf("Evaluate() on training data = %f, want >= 0.9", acc)
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	corpus := trainingCorpus()

	train1, test1 := TrainTestSplit(corpus, 0.2)
	train2, test2 := TrainTestSplit(corpus, 0.2)

	if len(train1) != len(train2) || len(test1) != len(test2) {
		t.Fatalf("split sizes differ between runs")
	}
	for i := range test1 {
		if test1[i] != test2[i] {
			t.Fatalf("split not deterministic at test index %d", i)
		}
	}
	if len(train1)+len(test1) != len(corpus) {
		t.Fatalf("split lost samples: %d + %d != %d", len(train1), len(test1), len(corpus))
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	m := Train(trainingCorpus(), 3000)
	m.Version = "20250101_000000"
	m.Accuracy = 0.95

	path, err := SaveModel(dir, m)
	if err != nil {
		t.Fatalf("SaveModel() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("model saved outside dir: %s", path)
	}

	loaded, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}

	orig := m.Predict("WIN FREE CASH NOW!!!", 0.5)
	restored := loaded.Predict("WIN FREE CASH NOW!!!", 0.5)
	if orig != restored {
		t.Fatalf("loaded model predicts differently: %+v vs %+v", orig, restored)
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	if _, err := LoadModel(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing model file")
	}
}
