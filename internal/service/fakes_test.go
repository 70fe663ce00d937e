package service

import (
	"sync"
	"time"

	"backend/internal/models"
	"backend/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type fakeSpamLogRepo struct {
	mu     sync.Mutex
	logs   map[int64]*models.SpamLog
	nextID int64
}

func newFakeSpamLogRepo() *fakeSpamLogRepo {
	return &fakeSpamLogRepo{logs: make(map[int64]*models.SpamLog)}
}

func (f *fakeSpamLogRepo) Save(entry *models.SpamLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = time.Now()
	clone := *entry
	f.logs[entry.ID] = &clone
	return nil
}

func (f *fakeSpamLogRepo) GetByID(id int64) (*models.SpamLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *entry
	return &clone, nil
}

func (f *fakeSpamLogRepo) List(filter models.LogFilter) ([]*models.SpamLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SpamLog
	for _, entry := range f.logs {
		if filter.UserID != nil && entry.UserID != *filter.UserID {
			continue
		}
		if filter.Result != "" && entry.Result != filter.Result {
			continue
		}
		clone := *entry
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeSpamLogRepo) Stats(userID *int64) (*models.LogStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.LogStats{}
	for _, entry := range f.logs {
		if userID != nil && entry.UserID != *userID {
			continue
		}
		stats.TotalAnalyses++
		if entry.Result == models.LabelSpam {
			stats.SpamDetected++
		} else {
			stats.HamDetected++
		}
	}
	return stats, nil
}

func (f *fakeSpamLogRepo) DeleteOlderThan(days int) (int64, error) {
	return 0, nil
}

type fakeFeedbackRepo struct {
	mu       sync.Mutex
	rows     map[int64]*models.UserFeedback
	byLogID  map[int64]int64
	spamLogs *fakeSpamLogRepo
	nextID   int64
}

func newFakeFeedbackRepo(spamLogs *fakeSpamLogRepo) *fakeFeedbackRepo {
	return &fakeFeedbackRepo{
		rows:     make(map[int64]*models.UserFeedback),
		byLogID:  make(map[int64]int64),
		spamLogs: spamLogs,
	}
}

func (f *fakeFeedbackRepo) Create(fb *models.UserFeedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byLogID[fb.SpamLogID]; exists {
		return repository.ErrDuplicateFeedback
	}
	f.nextID++
	fb.ID = f.nextID
	fb.CreatedAt = time.Now()
	clone := *fb
	f.rows[fb.ID] = &clone
	f.byLogID[fb.SpamLogID] = fb.ID

	// Mirror the real repository, which flips is_correct in the same
	// transaction as the insert.
	if entry, ok := f.spamLogs.logs[fb.SpamLogID]; ok {
		correct := !fb.WasMisclassified
		entry.IsCorrect = &correct
	}
	return nil
}

func (f *fakeFeedbackRepo) GetByID(id int64) (*models.UserFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *fb
	return &clone, nil
}

func (f *fakeFeedbackRepo) List(limit int) ([]*models.FeedbackDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.FeedbackDetail
	for _, fb := range f.rows {
		out = append(out, &models.FeedbackDetail{UserFeedback: *fb})
	}
	return out, nil
}

func (f *fakeFeedbackRepo) CountByUser(userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, fb := range f.rows {
		if fb.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeFeedbackRepo) Delete(id int64) (*models.UserFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.rows, id)
	delete(f.byLogID, fb.SpamLogID)
	return fb, nil
}

func (f *fakeFeedbackRepo) CountMisclassifiedSince(since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, fb := range f.rows {
		if fb.WasMisclassified && fb.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeFeedbackRepo) ListMisclassifiedSince(since time.Time) ([]models.TrainingSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TrainingSample
	for _, fb := range f.rows {
		if fb.WasMisclassified && fb.CreatedAt.After(since) {
			if entry, ok := f.spamLogs.logs[fb.SpamLogID]; ok {
				out = append(out, models.TrainingSample{Text: entry.EmailText, Label: fb.CorrectedResult})
			}
		}
	}
	return out, nil
}

type fakeModelVersionRepo struct {
	mu        sync.Mutex
	versions  map[int64]*models.ModelVersion
	nextID    int64
	watermark time.Time
}

func newFakeModelVersionRepo() *fakeModelVersionRepo {
	return &fakeModelVersionRepo{versions: make(map[int64]*models.ModelVersion)}
}

func (f *fakeModelVersionRepo) Create(mv *models.ModelVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	mv.ID = f.nextID
	clone := *mv
	f.versions[mv.ID] = &clone
	return nil
}

func (f *fakeModelVersionRepo) UpdateStatus(id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	mv, ok := f.versions[id]
	if !ok {
		return repository.ErrNotFound
	}
	mv.Status = status
	return nil
}

func (f *fakeModelVersionRepo) GetActive() (*models.ModelVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, mv := range f.versions {
		if mv.Status == models.ModelStatusActive {
			clone := *mv
			return &clone, nil
		}
	}
	return nil, repository.ErrNoActiveModel
}

func (f *fakeModelVersionRepo) Promote(candidateID int64, watermark time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	candidate, ok := f.versions[candidateID]
	if !ok || candidate.Status != models.ModelStatusReady {
		return repository.ErrNotFound
	}
	for _, mv := range f.versions {
		if mv.Status == models.ModelStatusActive {
			mv.Status = models.ModelStatusRetired
		}
	}
	candidate.Status = models.ModelStatusActive
	f.watermark = watermark
	return nil
}

func (f *fakeModelVersionRepo) GetWatermark() (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watermark, nil
}
