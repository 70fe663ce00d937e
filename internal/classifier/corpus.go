package classifier

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"backend/internal/models"
)

// LoadCorpus reads a base training corpus in the SMSSpamCollection format:
// one sample per line, label and text separated by a tab.
func LoadCorpus(path string) ([]models.TrainingSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer file.Close()

	var samples []models.TrainingSample
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		label, text, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("corpus line %d: missing tab separator", lineNo)
		}
		label = strings.ToLower(strings.TrimSpace(label))
		if label != models.LabelSpam && label != models.LabelHam {
			return nil, fmt.Errorf("corpus line %d: unknown label %q", lineNo, label)
		}
		samples = append(samples, models.TrainingSample{Text: text, Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return samples, nil
}
