package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/ryoshumei/intelliquest/internal/apperr"
	"github.com/ryoshumei/intelliquest/internal/model"
)

// fakeSurveyRepo is an in-memory SurveyRepository. Finds return copies so
// services mutate loaded state, not the store, until Save writes back.
type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[uint]*model.Survey
	nextID  uint
	nextQID uint
	saveErr error
	saves   int
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: map[uint]*model.Survey{}, nextID: 1, nextQID: 100}
}

// seed stores a survey, assigning survey and question ids.
func (f *fakeSurveyRepo) seed(s *model.Survey) *model.Survey {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == 0 {
		s.ID = f.nextID
		f.nextID++
	}
	f.assignQuestionIDs(s)
	f.surveys[s.ID] = copySurvey(s)
	return s
}

func (f *fakeSurveyRepo) assignQuestionIDs(s *model.Survey) {
	for i := range s.Questions {
		if s.Questions[i].ID == 0 {
			s.Questions[i].ID = f.nextQID
			f.nextQID++
		}
		s.Questions[i].SurveyID = s.ID
	}
}

func copySurvey(s *model.Survey) *model.Survey {
	c := *s
	c.Questions = make([]model.Question, len(s.Questions))
	copy(c.Questions, s.Questions)
	return &c
}

func (f *fakeSurveyRepo) Create(s *model.Survey) error {
	f.seed(s)
	return nil
}

func (f *fakeSurveyRepo) Save(s *model.Survey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.surveys[s.ID]; !ok {
		return apperr.NotFound("survey %d not found", s.ID)
	}
	f.assignQuestionIDs(s)
	s.Version++
	f.surveys[s.ID] = copySurvey(s)
	f.saves++
	return nil
}

func (f *fakeSurveyRepo) FindByID(id uint) (*model.Survey, error) {
	return f.FindByIDWithQuestions(id)
}

func (f *fakeSurveyRepo) FindByIDWithQuestions(id uint) (*model.Survey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surveys[id]
	if !ok {
		return nil, apperr.NotFound("survey %d not found", id)
	}
	return copySurvey(s), nil
}

func (f *fakeSurveyRepo) FindByUserID(userID uint) ([]model.Survey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Survey
	for _, s := range f.surveys {
		if s.UserID != nil && *s.UserID == userID {
			out = append(out, *copySurvey(s))
		}
	}
	return out, nil
}

func (f *fakeSurveyRepo) FindWithPagination(page, limit int) ([]model.Survey, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Survey
	for _, s := range f.surveys {
		out = append(out, *copySurvey(s))
	}
	return out, int64(len(out)), nil
}

func (f *fakeSurveyRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.surveys[id]; !ok {
		return apperr.NotFound("survey %d not found", id)
	}
	delete(f.surveys, id)
	return nil
}

func (f *fakeSurveyRepo) Exists(id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.surveys[id]
	return ok, nil
}

// stored returns the persisted copy, bypassing the service under test.
func (f *fakeSurveyRepo) stored(id uint) *model.Survey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copySurvey(f.surveys[id])
}

// fakeResponseRepo is an in-memory SurveyResponseRepository.
type fakeResponseRepo struct {
	mu        sync.Mutex
	responses []*model.SurveyResponse
	createErr error
}

func (f *fakeResponseRepo) Create(r *model.SurveyResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	r.ID = uint(len(f.responses) + 1)
	f.responses = append(f.responses, r)
	return nil
}

func (f *fakeResponseRepo) Save(r *model.SurveyResponse) error { return nil }

func (f *fakeResponseRepo) FindByID(id uint) (*model.SurveyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.responses {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperr.NotFound("response %d not found", id)
}

func (f *fakeResponseRepo) FindByUID(uid string) (*model.SurveyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.responses {
		if r.ResponseUID == uid {
			return r, nil
		}
	}
	return nil, apperr.NotFound("response %s not found", uid)
}

func (f *fakeResponseRepo) FindBySurveyID(surveyID uint, page, limit int) ([]model.SurveyResponse, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.SurveyResponse
	for _, r := range f.responses {
		if r.SurveyID == surveyID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeResponseRepo) Delete(id uint) error { return nil }

// stubGenerator returns canned questions, or synthesizes QuestionCount of them.
type stubGenerator struct {
	batch      []*model.Question
	single     *model.Question
	err        error
	calls      int
	lastParams GenerationParams
}

func makeAIQuestions(n int) []*model.Question {
	out := make([]*model.Question, 0, n)
	for i := 0; i < n; i++ {
		q, err := model.NewAIQuestion(fmt.Sprintf("Generated question %d", i+1), model.QuestionTypeText, nil, false)
		if err != nil {
			panic(err)
		}
		out = append(out, q)
	}
	return out
}

func (g *stubGenerator) GenerateQuestions(ctx context.Context, params GenerationParams) ([]*model.Question, error) {
	g.calls++
	g.lastParams = params
	if g.err != nil {
		return nil, g.err
	}
	if g.batch != nil {
		return g.batch, nil
	}
	return makeAIQuestions(params.QuestionCount), nil
}

func (g *stubGenerator) GenerateDynamicQuestion(ctx context.Context, params GenerationParams) (*model.Question, error) {
	g.calls++
	g.lastParams = params
	if g.err != nil {
		return nil, g.err
	}
	if g.single != nil {
		return g.single, nil
	}
	return makeAIQuestions(1)[0], nil
}

func (g *stubGenerator) GenerateDynamicQuestions(ctx context.Context, params GenerationParams) ([]*model.Question, error) {
	return g.GenerateQuestions(ctx, params)
}

func (g *stubGenerator) IsAvailable() bool { return true }

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []model.DomainEvent
}

func (b *recordingBus) Subscribe(eventName string, handler EventHandler) {}

func (b *recordingBus) Publish(event model.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) published(name string) []model.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.DomainEvent
	for _, e := range b.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// stubTranslator translates by prefixing the target language.
type stubTranslator struct {
	detected  string
	detectErr error
	batchErr  error
}

func (t *stubTranslator) TranslateText(ctx context.Context, text, targetLang string) (string, error) {
	return "[" + targetLang + "] " + text, nil
}

func (t *stubTranslator) TranslateBatch(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if t.batchErr != nil {
		return nil, t.batchErr
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "[" + targetLang + "] " + text
	}
	return out, nil
}

func (t *stubTranslator) DetectLanguage(ctx context.Context, text string) (string, error) {
	if t.detectErr != nil {
		return "", t.detectErr
	}
	return t.detected, nil
}

func (t *stubTranslator) GetSupportedLanguages() []string { return []string{"en", "ja"} }

func (t *stubTranslator) IsTranslationNeeded(sourceLang, targetLang string) bool {
	return sourceLang != "" && targetLang != "" && sourceLang != targetLang
}
