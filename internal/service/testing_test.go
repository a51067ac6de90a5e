package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"prediction-tracker/config"
	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/model"
	"prediction-tracker/internal/repository"
	"prediction-tracker/pkg/logger"
	"prediction-tracker/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Sweep:   config.Sweep{MaxConcurrency: 2},
		Ranking: config.RankingConfig{MaxLeaderboardSize: 50},
	}
}

func testLogger() *logger.Logger {
	log, _ := logger.New("error", "console")
	return log
}

type fakePredictionRepo struct {
	mu      sync.Mutex
	nextID  uint
	records map[uint]model.PredictionRecord
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{records: map[uint]model.PredictionRecord{}}
}

var _ repository.PredictionRepository = (*fakePredictionRepo)(nil)

func (f *fakePredictionRepo) add(record model.PredictionRecord) model.PredictionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	record.ID = f.nextID
	f.records[record.ID] = record
	return record
}

func (f *fakePredictionRepo) sorted(filter func(model.PredictionRecord) bool) []model.PredictionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PredictionRecord
	for _, r := range f.records {
		if filter(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakePredictionRepo) GetAll(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.PredictionRecord, error) {
	return f.sorted(func(r model.PredictionRecord) bool { return r.UserID == userID }), nil
}

func (f *fakePredictionRepo) GetByID(ctx context.Context, userID, id uint, opts ...utils.DBOption) (*model.PredictionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	copy := r
	return &copy, nil
}

func (f *fakePredictionRepo) GetByDate(ctx context.Context, userID uint, date time.Time) (*model.PredictionRecord, error) {
	records := f.sorted(func(r model.PredictionRecord) bool {
		return r.UserID == userID && utils.SameDay(time.Time(r.Date), date)
	})
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (f *fakePredictionRepo) GetPending(ctx context.Context, userID uint) ([]model.PredictionRecord, error) {
	return f.sorted(func(r model.PredictionRecord) bool {
		return r.UserID == userID && r.ConfirmedAt == nil
	}), nil
}

func (f *fakePredictionRepo) GetAllPending(ctx context.Context) ([]model.PredictionRecord, error) {
	return f.sorted(func(r model.PredictionRecord) bool { return r.ConfirmedAt == nil }), nil
}

func (f *fakePredictionRepo) GetConfirmedBetween(ctx context.Context, from, to *time.Time) ([]model.PredictionRecord, error) {
	return f.sorted(func(r model.PredictionRecord) bool {
		if r.ConfirmedAt == nil {
			return false
		}
		day := utils.DateOnly(time.Time(r.Date))
		if from != nil && day.Before(utils.DateOnly(*from)) {
			return false
		}
		if to != nil && !day.Before(utils.DateOnly(*to)) {
			return false
		}
		return true
	}), nil
}

func (f *fakePredictionRepo) GetByDateAllUsers(ctx context.Context, date time.Time) ([]model.PredictionRecord, error) {
	return f.sorted(func(r model.PredictionRecord) bool {
		return utils.SameDay(time.Time(r.Date), date)
	}), nil
}

func (f *fakePredictionRepo) Create(ctx context.Context, record *model.PredictionRecord) (*model.PredictionRecord, bool, error) {
	existing, _ := f.GetByDate(ctx, record.UserID, time.Time(record.Date))
	if existing != nil {
		return existing, false, nil
	}
	stored := f.add(*record)
	return &stored, true, nil
}

func (f *fakePredictionRepo) Save(ctx context.Context, record *model.PredictionRecord, opts ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = *record
	return nil
}

func (f *fakePredictionRepo) Delete(ctx context.Context, userID, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || r.UserID != userID {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]model.User{}}
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) Get(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) Ensure(ctx context.Context, id uint, name string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	u := model.User{ID: id, Name: name}
	f.users[id] = u
	return &u, nil
}

func (f *fakeUserRepo) UpdateName(ctx context.Context, id uint, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	u.Name = name
	f.users[id] = u
	return nil
}

type fakeQuoteRepo struct {
	mu     sync.Mutex
	quotes map[dto.Instrument]*dto.Quote
	errs   map[dto.Instrument]error
	calls  int
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{
		quotes: map[dto.Instrument]*dto.Quote{},
		errs:   map[dto.Instrument]error{},
	}
}

var _ repository.QuoteRepository = (*fakeQuoteRepo)(nil)

func (f *fakeQuoteRepo) Get(ctx context.Context, inst dto.Instrument) (*dto.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[inst]; ok {
		return nil, err
	}
	if q, ok := f.quotes[inst]; ok {
		return q, nil
	}
	return nil, repository.ErrQuoteUnavailable
}

type fakeUow struct{}

var _ repository.UnitOfWork = fakeUow{}

func (fakeUow) Run(fn func(opts ...utils.DBOption) error) error {
	return fn()
}
