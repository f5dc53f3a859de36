//приём анкет сотрудников и руководителей;
//панель администратора: просмотр, фильтры, графики, удаление;
//блокировка форм, выгрузка базы, отправка форм на почту.

//POST   /api/login                  # Вход (публичный)
//GET    /api/logout                 # Выход (публичный)
//GET    /api/surveys                # Страница анкет (auth)
//GET    /api/surveys/unique-values  # Значения для фильтров (auth)
//GET    /api/surveys/stats          # Графики (auth)
//GET    /api/survey/{type}/{id}     # Анкета (auth)
//DELETE /api/survey/{type}/{id}     # Удалить анкету (auth)
//POST   /api/save-survey            # Приём анкеты (публичный)
//GET    /api/survey-locks           # Блокировки (публичный)
//POST   /api/survey-locks           # Изменить блокировку (auth)
//GET    /api/backup                 # Файл базы SQLite (auth)
//POST   /send-email                 # Форма на почту (публичный)

package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	backupAPI "surveydesk/internal/app/server/api/http/backup"
	healthAPI "surveydesk/internal/app/server/api/http/health"
	"surveydesk/internal/app/server/api/http/httperr"
	locksAPI "surveydesk/internal/app/server/api/http/locks"
	mailAPI "surveydesk/internal/app/server/api/http/mail"
	"surveydesk/internal/app/server/api/http/middleware"
	"surveydesk/internal/app/server/api/http/middleware/auth"
	"surveydesk/internal/app/server/api/http/middleware/logger"
	surveyAPI "surveydesk/internal/app/server/api/http/survey"
	userAPI "surveydesk/internal/app/server/api/http/user"
	"surveydesk/internal/app/server/config"
	authDomain "surveydesk/internal/domain/auth"
	"surveydesk/internal/domain/mail"
	"surveydesk/internal/domain/settings"
	"surveydesk/internal/domain/stats"
	"surveydesk/internal/domain/survey"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Env          string
	Engine       string
	StaticDir    string
	SecureCookie bool

	Surveys  survey.Servicer
	Stats    stats.Servicer
	Settings settings.Servicer
	Auth     authDomain.Servicer
	Mail     mail.Servicer
	Backup   backupAPI.Source
}

type Handlers struct {
	Health *healthAPI.Handler
	User   *userAPI.Handler
	Survey *surveyAPI.Handler
	Locks  *locksAPI.Handler
	Backup *backupAPI.Handler
	Mail   *mailAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(deps Deps, log *slog.Logger) *chi.Mux {
	httperr.Install(deps.Env != config.EnvProd)

	mux := chi.NewMux()

	cfg := huma.DefaultConfig("Survey Desk API", "1.0.0")
	// без $schema в ответах: клиенты ждут плоский JSON
	cfg.CreateHooks = nil
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookie": {Type: "apiKey", In: "cookie", Name: auth.CookieName},
	}

	API := humachi.New(mux, cfg)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Survey.SetupRoutes(API)
	h.Locks.SetupRoutes(API)
	h.Backup.SetupRoutes(API)
	h.Mail.SetupRoutes(API)

	if deps.StaticDir != "" {
		mux.Handle("/*", http.FileServer(http.Dir(deps.StaticDir)))
	}

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	authMW := auth.New(deps.Auth, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer(loggerMW.Middleware())

	healthHandler := healthAPI.NewHandler(deps.Engine, log, middlewares.GetAllAndClear())
	userHandler := userAPI.NewHandler(deps.Auth, deps.SecureCookie, log, middlewares.GetAllAndClear())
	mailHandler := mailAPI.NewHandler(deps.Mail, log, middlewares.GetAllAndClear())

	public := middlewares.GetAllAndClear()
	protected := middlewares.Add(authMW.Middleware()).GetAllAndClear()

	surveyHandler := surveyAPI.NewHandler(deps.Surveys, deps.Stats, log, protected, public)
	locksHandler := locksAPI.NewHandler(deps.Settings, log, protected, public)
	backupHandler := backupAPI.NewHandler(deps.Backup, log, protected)

	return &Handlers{
		Health: healthHandler,
		User:   userHandler,
		Survey: surveyHandler,
		Locks:  locksHandler,
		Backup: backupHandler,
		Mail:   mailHandler,
	}
}
