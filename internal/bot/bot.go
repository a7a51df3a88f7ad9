// Package bot implements the Telegram conversation flow: ask for a query,
// ask for a city, fetch and analyze vacancies, reply with the report.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hh-tools/go-analyzer/internal/analytics"
	"github.com/hh-tools/go-analyzer/internal/domain"
	"github.com/hh-tools/go-analyzer/internal/hhapi"
	"github.com/hh-tools/go-analyzer/internal/report"
	"github.com/hh-tools/go-analyzer/internal/store"
	"github.com/hh-tools/go-analyzer/internal/telegram"
)

// Keyboard button labels.
const (
	btnAnalyze   = "🔍 Анализировать вакансии"
	btnStats     = "📊 Моя статистика"
	btnHelp      = "❓ Помощь"
	btnCancel    = "❌ Отмена"
	btnAllCities = "Все города"
)

// Messenger sends messages back to chats.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.ReplyKeyboard) error
}

// Searcher fetches vacancies for a search query.
type Searcher interface {
	SearchAll(ctx context.Context, params hhapi.SearchParams) ([]domain.RawVacancy, error)
}

// History persists finished analyses. May be left nil to run without a
// database.
type History interface {
	SaveAnalysis(ctx context.Context, query, area string, chatID int64, summary *domain.AnalysisSummary) (int64, error)
	RecentByChat(ctx context.Context, chatID int64, limit int) ([]store.Analysis, error)
	Usage(ctx context.Context) (*store.UsageStats, error)
}

// Archiver stores fetched vacancies for long-term search. May be nil.
type Archiver interface {
	Archive(ctx context.Context, vacancies []domain.RawVacancy) error
}

// pollRetryDelay spaces out getUpdates retries after a failure.
const pollRetryDelay = 3 * time.Second

type state int

const (
	stateIdle state = iota
	stateAwaitQuery
	stateAwaitCity
)

type session struct {
	state state
	query string
}

type lastResult struct {
	query   string
	area    string
	summary *domain.AnalysisSummary
}

// Service routes incoming messages through the conversation state machine.
type Service struct {
	tg       Messenger
	search   Searcher
	analyzer *analytics.Analyzer
	history  History
	archiver Archiver

	mu       sync.Mutex
	sessions map[int64]*session
	results  map[int64]*lastResult
}

func New(tg Messenger, search Searcher, analyzer *analytics.Analyzer, history History, archiver Archiver) *Service {
	return &Service{
		tg:       tg,
		search:   search,
		analyzer: analyzer,
		history:  history,
		archiver: archiver,
		sessions: make(map[int64]*session),
		results:  make(map[int64]*lastResult),
	}
}

// Run long-polls for updates until the context is canceled.
func (s *Service) Run(ctx context.Context, client *telegram.Client) error {
	log.Println("Bot started, polling for updates")

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("getUpdates error: %v", err)
			// Back off so a dead network or bad token doesn't spin the loop.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			s.HandleMessage(ctx, update.Message.Chat.ID, update.Message.Text)
		}
	}
}

// HandleMessage processes one incoming text message.
func (s *Service) HandleMessage(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	sess := s.sessions[chatID]
	if sess == nil {
		sess = &session{}
		s.sessions[chatID] = sess
	}
	state := sess.state
	s.mu.Unlock()

	switch {
	case text == "/start":
		s.setState(chatID, stateIdle, "")
		s.reply(ctx, chatID, startMessage, mainKeyboard())
	case text == "/help" || text == btnHelp:
		s.reply(ctx, chatID, helpMessage, mainKeyboard())
	case text == btnAnalyze:
		s.setState(chatID, stateAwaitQuery, "")
		s.reply(ctx, chatID, queryPrompt, nil)
	case text == btnStats:
		s.sendStats(ctx, chatID)
	case text == "/stats":
		s.sendUsage(ctx, chatID)
	case state == stateAwaitQuery:
		s.handleQuery(ctx, chatID, text)
	case state == stateAwaitCity:
		s.handleCity(ctx, chatID, text)
	default:
		s.reply(ctx, chatID, "Я не понял команду. Используйте кнопки меню.", mainKeyboard())
	}
}

func (s *Service) handleQuery(ctx context.Context, chatID int64, query string) {
	if utf8.RuneCountInString(query) < 3 {
		s.reply(ctx, chatID, "Запрос слишком короткий. Введите минимум 3 символа.", nil)
		return
	}

	s.setState(chatID, stateAwaitCity, query)
	s.reply(ctx, chatID, "Выберите город или введите название:", citiesKeyboard())
}

func (s *Service) handleCity(ctx context.Context, chatID int64, city string) {
	s.mu.Lock()
	query := s.sessions[chatID].query
	s.mu.Unlock()
	s.setState(chatID, stateIdle, "")

	if city == btnCancel {
		s.reply(ctx, chatID, "Отменено", mainKeyboard())
		return
	}

	area, areaName := "", btnAllCities
	if city != btnAllCities {
		area, areaName = city, city
	}

	s.reply(ctx, chatID, fmt.Sprintf(
		"🔍 Анализирую вакансии...\n\nЗапрос: %s\nГород: %s\n\nЭто займёт 10-30 секунд...",
		query, areaName), nil)

	s.runAnalysis(ctx, chatID, query, area, areaName)
}

func (s *Service) runAnalysis(ctx context.Context, chatID int64, query, area, areaName string) {
	vacancies, err := s.search.SearchAll(ctx, hhapi.SearchParams{Text: query, Area: area})
	if err != nil {
		log.Printf("search failed for chat %d: %v", chatID, err)
		s.reply(ctx, chatID, "❌ "+userMessage(err), mainKeyboard())
		return
	}

	summary, err := s.analyzer.Analyze(vacancies)
	if errors.Is(err, analytics.ErrNoVacancies) {
		s.reply(ctx, chatID, "❌ Вакансии не найдены. Попробуйте изменить запрос.", mainKeyboard())
		return
	}
	if err != nil {
		log.Printf("analysis failed for chat %d: %v", chatID, err)
		s.reply(ctx, chatID, "❌ Ошибка при анализе: "+err.Error(), mainKeyboard())
		return
	}

	s.mu.Lock()
	s.results[chatID] = &lastResult{query: query, area: areaName, summary: summary}
	s.mu.Unlock()

	if s.history != nil {
		if _, err := s.history.SaveAnalysis(ctx, query, area, chatID, summary); err != nil {
			log.Printf("save analysis failed for chat %d: %v", chatID, err)
		}
	}
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, vacancies); err != nil {
			log.Printf("archive failed for chat %d: %v", chatID, err)
		}
	}

	s.reply(ctx, chatID, report.Text(summary, query, areaName), mainKeyboard())
}

func (s *Service) sendStats(ctx context.Context, chatID int64) {
	s.mu.Lock()
	result := s.results[chatID]
	s.mu.Unlock()

	if result != nil {
		s.reply(ctx, chatID, report.Text(result.summary, result.query, result.area), mainKeyboard())
		return
	}

	// Fall back to persisted history after a restart.
	if s.history != nil {
		recent, err := s.history.RecentByChat(ctx, chatID, 1)
		if err != nil {
			log.Printf("load history failed for chat %d: %v", chatID, err)
		} else if len(recent) > 0 {
			a := recent[0]
			s.reply(ctx, chatID, report.Text(a.Summary, a.Query, a.Area), mainKeyboard())
			return
		}
	}

	s.reply(ctx, chatID, "У вас пока нет сохранённых результатов.\nСначала выполните анализ вакансий.", mainKeyboard())
}

// sendUsage reports bot-wide totals from the history database.
func (s *Service) sendUsage(ctx context.Context, chatID int64) {
	if s.history == nil {
		s.reply(ctx, chatID, "Статистика недоступна: база данных не подключена.", mainKeyboard())
		return
	}

	usage, err := s.history.Usage(ctx)
	if err != nil {
		log.Printf("load usage failed for chat %d: %v", chatID, err)
		s.reply(ctx, chatID, "❌ Не удалось загрузить статистику.", mainKeyboard())
		return
	}

	var b strings.Builder
	b.WriteString("📈 <b>Статистика бота</b>\n\n")
	fmt.Fprintf(&b, "Всего анализов: %d\n", usage.TotalAnalyses)
	fmt.Fprintf(&b, "Сегодня: %d\n", usage.TodayAnalyses)
	fmt.Fprintf(&b, "Чатов: %d\n", usage.UniqueChats)
	if len(usage.TopQueries) > 0 {
		b.WriteString("\nПопулярные запросы:\n")
		for _, qc := range usage.TopQueries {
			fmt.Fprintf(&b, "   %s: %d\n", qc.Query, qc.Count)
		}
	}
	s.reply(ctx, chatID, strings.TrimRight(b.String(), "\n"), mainKeyboard())
}

func (s *Service) setState(chatID int64, st state, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[chatID]
	if sess == nil {
		sess = &session{}
		s.sessions[chatID] = sess
	}
	sess.state = st
	sess.query = query
}

func (s *Service) reply(ctx context.Context, chatID int64, text string, keyboard *telegram.ReplyKeyboard) {
	if err := s.tg.SendMessage(ctx, chatID, text, keyboard); err != nil {
		log.Printf("send to chat %d failed: %v", chatID, err)
	}
}

// userMessage maps API failures to the message shown in chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, hhapi.ErrRateLimited):
		return "Слишком много запросов к HH API. Попробуйте позже."
	case errors.Is(err, hhapi.ErrTimeout):
		return "Тайм-аут при запросе к HH API. Проверьте соединение."
	case errors.Is(err, hhapi.ErrConnection):
		return "Ошибка соединения с HH API."
	case hhapi.IsServerError(err):
		return "Ошибка сервера HH API. Попробуйте позже."
	default:
		return "Ошибка при анализе: " + err.Error()
	}
}

func mainKeyboard() *telegram.ReplyKeyboard {
	return &telegram.ReplyKeyboard{
		Keyboard: [][]telegram.KeyboardButton{
			{{Text: btnAnalyze}},
			{{Text: btnStats}, {Text: btnHelp}},
		},
		ResizeKeyboard: true,
	}
}

func citiesKeyboard() *telegram.ReplyKeyboard {
	return &telegram.ReplyKeyboard{
		Keyboard: [][]telegram.KeyboardButton{
			{{Text: "Москва"}, {Text: "Санкт-Петербург"}},
			{{Text: "Удалённо"}, {Text: btnAllCities}},
			{{Text: btnCancel}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

const startMessage = "👋 Привет! Я бот для анализа рынка вакансий с hh.ru\n\n" +
	"Что я умею:\n" +
	"• Искать вакансии по названию и городу\n" +
	"• Строить статистику по зарплатам\n" +
	"• Показывать топ работодателей\n" +
	"• Извлекать популярные навыки\n\n" +
	"Нажми <b>🔍 Анализировать вакансии</b> чтобы начать!"

const helpMessage = "📖 <b>Как пользоваться ботом:</b>\n\n" +
	"1. Нажми <b>🔍 Анализировать вакансии</b>\n" +
	"2. Введи название вакансии (например: Python разработчик)\n" +
	"3. Выбери город или укажи свой\n" +
	"4. Жди отчёт (занимает 10-30 секунд)\n\n" +
	"💡 <b>Примеры запросов:</b>\n" +
	"• Python разработчик\n" +
	"• Frontend разработчик React\n" +
	"• DevOps инженер\n\n" +
	"📊 Отчёт включает:\n" +
	"• Статистику зарплат (мин/макс/средняя/медиана)\n" +
	"• Распределение по интервалам\n" +
	"• Топ работодателей\n" +
	"• Требования по опыту\n" +
	"• Популярные навыки"

const queryPrompt = "Введите название вакансии для анализа:\n\n" +
	"Примеры:\n" +
	"• Python разработчик\n" +
	"• React разработчик\n" +
	"• DevOps инженер"
