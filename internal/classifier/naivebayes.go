package classifier

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"backend/internal/models"
)

// Algorithm is recorded on every trained model version.
const Algorithm = "Multinomial Naive Bayes"

const splitSeed = 42

// Model is a trained bag-of-words multinomial naive Bayes classifier for the
// spam/ham decision. It is immutable after training; Predict is safe for
// concurrent use.
type Model struct {
	Version         string         `json:"version"`
	Algorithm       string         `json:"algorithm"`
	TrainedAt       time.Time      `json:"trained_at"`
	Accuracy        float64        `json:"accuracy"`
	TrainingSamples int            `json:"training_samples"`
	SpamTokenCounts map[string]int `json:"spam_token_counts"`
	HamTokenCounts  map[string]int `json:"ham_token_counts"`
	SpamTokenTotal  int            `json:"spam_token_total"`
	HamTokenTotal   int            `json:"ham_token_total"`
	SpamDocs        int            `json:"spam_docs"`
	HamDocs         int            `json:"ham_docs"`
	VocabularySize  int            `json:"vocabulary_size"`
}

// Prediction is the outcome of classifying one text.
type Prediction struct {
	Label      string
	Confidence float64
	SpamProb   float64
}

// Train builds a model from labeled samples. The vocabulary is capped at the
// maxFeatures most frequent tokens across the corpus; everything outside it
// is ignored at prediction time as well.
func Train(samples []models.TrainingSample, maxFeatures int) *Model {
	freq := make(map[string]int)
	tokenized := make([][]string, len(samples))
	for i, s := range samples {
		tokens := Tokenize(s.Text)
		tokenized[i] = tokens
		for _, tok := range tokens {
			freq[tok]++
		}
	}

	vocab := buildVocabulary(freq, maxFeatures)

	m := &Model{
		Algorithm:       Algorithm,
		TrainedAt:       time.Now(),
		TrainingSamples: len(samples),
		SpamTokenCounts: make(map[string]int),
		HamTokenCounts:  make(map[string]int),
		VocabularySize:  len(vocab),
	}

	for i, s := range samples {
		isSpam := s.Label == models.LabelSpam
		if isSpam {
			m.SpamDocs++
		} else {
			m.HamDocs++
		}
		for _, tok := range tokenized[i] {
			if _, ok := vocab[tok]; !ok {
				continue
			}
			if isSpam {
				m.SpamTokenCounts[tok]++
				m.SpamTokenTotal++
			} else {
				m.HamTokenCounts[tok]++
				m.HamTokenTotal++
			}
		}
	}

	return m
}

func buildVocabulary(freq map[string]int, maxFeatures int) map[string]struct{} {
	type tokenFreq struct {
		token string
		count int
	}
	ranked := make([]tokenFreq, 0, len(freq))
	for tok, n := range freq {
		ranked = append(ranked, tokenFreq{tok, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].token < ranked[j].token
	})
	if maxFeatures > 0 && len(ranked) > maxFeatures {
		ranked = ranked[:maxFeatures]
	}
	vocab := make(map[string]struct{}, len(ranked))
	for _, tf := range ranked {
		vocab[tf.token] = struct{}{}
	}
	return vocab
}

// Predict classifies text against the model. The label is spam iff the spam
// probability reaches the decision threshold. Deterministic for a fixed
// model: same input, same output.
func (m *Model) Predict(text string, threshold float64) Prediction {
	tokens := Tokenize(text)

	totalDocs := m.SpamDocs + m.HamDocs
	if totalDocs == 0 {
		return Prediction{Label: models.LabelHam, Confidence: 0.5, SpamProb: 0.5}
	}

	// Laplace-smoothed log likelihoods; tokens outside the training
	// vocabulary are skipped, matching the vectorizer's transform.
	logSpam := math.Log(float64(m.SpamDocs)+1) - math.Log(float64(totalDocs)+2)
	logHam := math.Log(float64(m.HamDocs)+1) - math.Log(float64(totalDocs)+2)
	v := float64(m.VocabularySize)
	for _, tok := range tokens {
		_, inSpam := m.SpamTokenCounts[tok]
		_, inHam := m.HamTokenCounts[tok]
		if !inSpam && !inHam {
			continue
		}
		logSpam += math.Log(float64(m.SpamTokenCounts[tok])+1) - math.Log(float64(m.SpamTokenTotal)+v)
		logHam += math.Log(float64(m.HamTokenCounts[tok])+1) - math.Log(float64(m.HamTokenTotal)+v)
	}

	spamProb := logistic(logSpam, logHam)

	p := Prediction{SpamProb: spamProb}
	if spamProb >= threshold {
		p.Label = models.LabelSpam
		p.Confidence = spamProb
	} else {
		p.Label = models.LabelHam
		p.Confidence = 1 - spamProb
	}
	return p
}

// logistic converts two class log-scores into P(spam) with log-sum-exp
// stabilization.
func logistic(logSpam, logHam float64) float64 {
	max := logSpam
	if logHam > max {
		max = logHam
	}
	es := math.Exp(logSpam - max)
	eh := math.Exp(logHam - max)
	return es / (es + eh)
}

// Evaluate returns the model's accuracy on a labeled hold-out set.
func Evaluate(m *Model, samples []models.TrainingSample, threshold float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for _, s := range samples {
		if m.Predict(s.Text, threshold).Label == s.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

// TrainTestSplit shuffles the samples with a fixed seed and splits off the
// given fraction as a hold-out set. The fixed seed keeps training runs
// reproducible.
func TrainTestSplit(samples []models.TrainingSample, testFraction float64) (train, test []models.TrainingSample) {
	shuffled := make([]models.TrainingSample, len(samples))
	copy(shuffled, samples)
	rng := rand.New(rand.NewSource(splitSeed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(float64(len(shuffled)) * testFraction)
	if testSize < 1 && len(shuffled) > 1 {
		testSize = 1
	}
	split := len(shuffled) - testSize
	return shuffled[:split], shuffled[split:]
}
