package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hh-tools/go-analyzer/internal/analytics"
	"github.com/hh-tools/go-analyzer/internal/domain"
	"github.com/hh-tools/go-analyzer/internal/hhapi"
	"github.com/hh-tools/go-analyzer/internal/store"
	"github.com/hh-tools/go-analyzer/internal/telegram"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *telegram.ReplyKeyboard
}

type fakeMessenger struct {
	sent []sentMessage
}

func (f *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string, keyboard *telegram.ReplyKeyboard) error {
	f.sent = append(f.sent, sentMessage{chatID, text, keyboard})
	return nil
}

func (f *fakeMessenger) last() sentMessage {
	return f.sent[len(f.sent)-1]
}

type fakeSearcher struct {
	params    []hhapi.SearchParams
	vacancies []domain.RawVacancy
	err       error
}

func (f *fakeSearcher) SearchAll(_ context.Context, params hhapi.SearchParams) ([]domain.RawVacancy, error) {
	f.params = append(f.params, params)
	return f.vacancies, f.err
}

type fakeHistory struct {
	saved  []string
	recent []store.Analysis
	usage  *store.UsageStats
}

func (f *fakeHistory) SaveAnalysis(_ context.Context, query, area string, chatID int64, summary *domain.AnalysisSummary) (int64, error) {
	f.saved = append(f.saved, fmt.Sprintf("%s|%s|%d|%d", query, area, chatID, summary.Total))
	return int64(len(f.saved)), nil
}

func (f *fakeHistory) RecentByChat(_ context.Context, _ int64, _ int) ([]store.Analysis, error) {
	return f.recent, nil
}

func (f *fakeHistory) Usage(_ context.Context) (*store.UsageStats, error) {
	if f.usage == nil {
		return &store.UsageStats{}, nil
	}
	return f.usage, nil
}

func demoVacancies() []domain.RawVacancy {
	return []domain.RawVacancy{
		{ID: "1", RawData: map[string]any{
			"name":     "Python разработчик",
			"employer": map[string]any{"name": "Яндекс"},
			"salary":   map[string]any{"from": float64(200000), "currency": "RUR"},
			"snippet":  map[string]any{"requirement": "Python и Django"},
		}},
	}
}

func newTestService(search Searcher, history History) (*Service, *fakeMessenger) {
	tg := &fakeMessenger{}
	return New(tg, search, analytics.New(nil), history, nil), tg
}

const chatID = int64(7)

func TestStartShowsMainKeyboard(t *testing.T) {
	svc, tg := newTestService(&fakeSearcher{}, nil)

	svc.HandleMessage(context.Background(), chatID, "/start")

	require.Len(t, tg.sent, 1)
	assert.Contains(t, tg.last().text, "Привет")
	require.NotNil(t, tg.last().keyboard)
	assert.Equal(t, btnAnalyze, tg.last().keyboard.Keyboard[0][0].Text)
}

func TestFullAnalysisFlow(t *testing.T) {
	search := &fakeSearcher{vacancies: demoVacancies()}
	history := &fakeHistory{}
	svc, tg := newTestService(search, history)
	ctx := context.Background()

	svc.HandleMessage(ctx, chatID, btnAnalyze)
	assert.Contains(t, tg.last().text, "Введите название вакансии")

	svc.HandleMessage(ctx, chatID, "Python разработчик")
	assert.Contains(t, tg.last().text, "Выберите город")

	svc.HandleMessage(ctx, chatID, "Москва")

	require.Len(t, search.params, 1)
	assert.Equal(t, "Python разработчик", search.params[0].Text)
	assert.Equal(t, "Москва", search.params[0].Area)

	final := tg.last()
	assert.Contains(t, final.text, "📊 <b>Аналитика вакансий</b>")
	assert.Contains(t, final.text, "Яндекс")

	require.Len(t, history.saved, 1)
	assert.Equal(t, "Python разработчик|Москва|7|1", history.saved[0])
}

func TestAllCitiesSearchesWithoutArea(t *testing.T) {
	search := &fakeSearcher{vacancies: demoVacancies()}
	svc, _ := newTestService(search, nil)
	ctx := context.Background()

	svc.HandleMessage(ctx, chatID, btnAnalyze)
	svc.HandleMessage(ctx, chatID, "golang")
	svc.HandleMessage(ctx, chatID, btnAllCities)

	require.Len(t, search.params, 1)
	assert.Empty(t, search.params[0].Area)
}

func TestShortQueryRejected(t *testing.T) {
	search := &fakeSearcher{}
	svc, tg := newTestService(search, nil)
	ctx := context.Background()

	svc.HandleMessage(ctx, chatID, btnAnalyze)
	svc.HandleMessage(ctx, chatID, "go")

	assert.Contains(t, tg.last().text, "слишком короткий")

	// Still waiting for a valid query.
	svc.HandleMessage(ctx, chatID, "голанг")
	assert.Contains(t, tg.last().text, "Выберите город")
}

func TestCancelReturnsToMenu(t *testing.T) {
	search := &fakeSearcher{}
	svc, tg := newTestService(search, nil)
	ctx := context.Background()

	svc.HandleMessage(ctx, chatID, btnAnalyze)
	svc.HandleMessage(ctx, chatID, "Python разработчик")
	svc.HandleMessage(ctx, chatID, btnCancel)

	assert.Equal(t, "Отменено", tg.last().text)
	assert.Empty(t, search.params)
}

func TestNoVacanciesFound(t *testing.T) {
	search := &fakeSearcher{vacancies: nil}
	svc, tg := newTestService(search, nil)
	ctx := context.Background()

	svc.HandleMessage(ctx, chatID, btnAnalyze)
	svc.HandleMessage(ctx, chatID, "нейрохирург-космонавт")
	svc.HandleMessage(ctx, chatID, btnAllCities)

	assert.Contains(t, tg.last().text, "Вакансии не найдены")
}

func TestRateLimitMessage(t *testing.T) {
	search := &fakeSearcher{err: hhapi.ErrRateLimited}
	svc, tg := newTestService(search, nil)
	ctx := context.Background()

	svc.HandleMessage(ctx, chatID, btnAnalyze)
	svc.HandleMessage(ctx, chatID, "Python разработчик")
	svc.HandleMessage(ctx, chatID, "Москва")

	assert.Contains(t, tg.last().text, "Слишком много запросов")
}

func TestStatsWithoutResults(t *testing.T) {
	svc, tg := newTestService(&fakeSearcher{}, nil)

	svc.HandleMessage(context.Background(), chatID, btnStats)

	assert.Contains(t, tg.last().text, "нет сохранённых результатов")
}

func TestStatsRepeatsLastReport(t *testing.T) {
	search := &fakeSearcher{vacancies: demoVacancies()}
	svc, tg := newTestService(search, nil)
	ctx := context.Background()

	svc.HandleMessage(ctx, chatID, btnAnalyze)
	svc.HandleMessage(ctx, chatID, "Python разработчик")
	svc.HandleMessage(ctx, chatID, "Москва")
	reportText := tg.last().text

	svc.HandleMessage(ctx, chatID, btnStats)
	assert.Equal(t, reportText, tg.last().text)
}

func TestStatsFallsBackToHistory(t *testing.T) {
	history := &fakeHistory{recent: []store.Analysis{{
		Query:   "golang",
		Area:    "Казань",
		Summary: &domain.AnalysisSummary{Total: 12},
	}}}
	svc, tg := newTestService(&fakeSearcher{}, history)

	svc.HandleMessage(context.Background(), chatID, btnStats)

	assert.Contains(t, tg.last().text, "golang")
	assert.Contains(t, tg.last().text, "Казань")
}

func TestUsageCommand(t *testing.T) {
	history := &fakeHistory{usage: &store.UsageStats{
		TotalAnalyses: 42,
		TodayAnalyses: 5,
		UniqueChats:   7,
		TopQueries: []store.QueryCount{
			{Query: "python разработчик", Count: 12},
			{Query: "golang", Count: 9},
		},
	}}
	svc, tg := newTestService(&fakeSearcher{}, history)

	svc.HandleMessage(context.Background(), chatID, "/stats")

	text := tg.last().text
	assert.Contains(t, text, "Всего анализов: 42")
	assert.Contains(t, text, "Сегодня: 5")
	assert.Contains(t, text, "Чатов: 7")
	assert.Contains(t, text, "python разработчик: 12")
}

func TestUsageCommandWithoutDatabase(t *testing.T) {
	svc, tg := newTestService(&fakeSearcher{}, nil)

	svc.HandleMessage(context.Background(), chatID, "/stats")

	assert.Contains(t, tg.last().text, "база данных не подключена")
}

func TestRunBacksOffOnPollFailure(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok": false, "description": "Unauthorized"}`))
	}))
	defer server.Close()

	client := telegram.NewClient("bad-token", telegram.WithAPIBase(server.URL), telegram.WithPollTimeout(1))
	svc, _ := newTestService(&fakeSearcher{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := svc.Run(ctx, client)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// One failed poll, then the retry delay outlasts the context; without
	// the delay this loop fires hundreds of requests in 300ms.
	assert.LessOrEqual(t, requests.Load(), int32(2))
}

func TestUnknownMessage(t *testing.T) {
	svc, tg := newTestService(&fakeSearcher{}, nil)

	svc.HandleMessage(context.Background(), chatID, "абракадабра")

	assert.Contains(t, tg.last().text, "не понял команду")
}
