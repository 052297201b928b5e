package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/config"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/scheduler"
)

// EventPublisher 由 *amqp.Channel 实现
type EventPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	engine       *scheduler.Engine
	suggester    *scheduler.Suggester
	translator   ut.Translator
	eventChannel EventPublisher // 为 nil 时不发送事件
	redisClient  redis.Cmdable  // 为 nil 时不使用缓存

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, engine *scheduler.Engine, eventCh EventPublisher, rdb redis.Cmdable) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		engine:       engine,
		suggester:    scheduler.NewSuggester(engine),
		translator:   trans,
		eventChannel: eventCh,
		redisClient:  rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/health", h.Health)

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleOwner}))
				r.Post("/publish", h.PublishSchedule)
				r.Post("/clear-drafts", h.ClearDrafts)
				r.Post("/open-shifts/suggest", h.SuggestOpenShifts)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleOwner}))
			r.Post("/", h.CreateShift)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftID)
				r.Patch("/", h.UpdateShift)
				r.Delete("/", h.DeleteShift)
			})
		})

		r.Route("/time-off", func(r chi.Router) {
			r.Get("/", h.GetTimeOff)
			r.Post("/", h.RequestTimeOff)
			r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).With(h.timeOffID).Patch("/{id}/status", h.ReviewTimeOff)
		})
	})
}
