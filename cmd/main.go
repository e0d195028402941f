package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/ryoshumei/intelliquest/config"
	"github.com/ryoshumei/intelliquest/database"
	"github.com/ryoshumei/intelliquest/internal/controller"
	"github.com/ryoshumei/intelliquest/internal/logger"
	"github.com/ryoshumei/intelliquest/internal/model"
	"github.com/ryoshumei/intelliquest/internal/repository"
	"github.com/ryoshumei/intelliquest/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title IntelliQuest Survey API
// @version 1.0
// @description Adaptive survey platform: authored questionnaires extended with AI-generated dynamic questions.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewSurveyRepository,
			repository.NewSurveyResponseRepository,
		),

		fx.Provide(
			service.NewEventBus,
			service.NewGeminiGeneratorService,
			service.NewTranslationService,
			service.NewSurveyService,
			service.NewDynamicQuestionService,
			service.NewResponseSubmissionService,
		),

		fx.Provide(controller.NewController),

		fx.Invoke(SubscribeEventLoggers),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// SubscribeEventLoggers attaches the default audit subscribers. Delivery is
// at-least-once and fire-and-forget; failures stay inside the bus.
func SubscribeEventLoggers(bus service.EventBus) {
	bus.Subscribe(model.EventSurveyCreated, func(e model.DomainEvent) {
		log.Info().Uint("surveyID", e.SurveyID).Interface("payload", e.Payload).Msg("survey created")
	})
	bus.Subscribe(model.EventDynamicQuestionAdded, func(e model.DomainEvent) {
		log.Info().Uint("surveyID", e.SurveyID).Interface("payload", e.Payload).Msg("dynamic question added")
	})
	bus.Subscribe(model.EventResponseSubmitted, func(e model.DomainEvent) {
		log.Info().Uint("surveyID", e.SurveyID).Interface("payload", e.Payload).Msg("response submitted")
	})
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	ctrl *controller.Controller,
) {
	ctrl.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("IntelliQuest API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Survey{},
		&model.Question{},
		&model.SurveyResponse{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
