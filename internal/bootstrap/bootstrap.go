package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/Nicole-tabby/study-share-oasis/internal/app/auth"
	appControllers "github.com/Nicole-tabby/study-share-oasis/internal/app/controllers"
	appMigrations "github.com/Nicole-tabby/study-share-oasis/internal/app/migrations"
	appRepos "github.com/Nicole-tabby/study-share-oasis/internal/app/repositories"
	appRoutes "github.com/Nicole-tabby/study-share-oasis/internal/app/routes"
	appServices "github.com/Nicole-tabby/study-share-oasis/internal/app/services"
	"github.com/Nicole-tabby/study-share-oasis/internal/config"
	"github.com/Nicole-tabby/study-share-oasis/internal/db"
	appMiddleware "github.com/Nicole-tabby/study-share-oasis/internal/middleware"
	pkgAuth "github.com/Nicole-tabby/study-share-oasis/internal/pkg/auth"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/filestorage"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/notify"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/querycache"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	Services            *appServices.Services
	AuthController      *appControllers.AuthController
	NoteController      *appControllers.NoteController
	SavedNoteController *appControllers.SavedNoteController
	ProfileController   *appControllers.ProfileController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	JWTService          *pkgAuth.JWTService
	AuthzService        *appAuth.AuthorizationService
	Cache               *querycache.Cache
	Hub                 *notify.Hub
	Listener            *notify.Listener
	FileStorage         filestorage.FileStorage
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// setupFileStorage builds the configured storage backend.
func setupFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return filestorage.NewS3Storage(filestorage.S3Config{
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Endpoint:  cfg.Storage.S3.Endpoint,
			Region:    cfg.Storage.S3.Region,
			Bucket:    cfg.Storage.S3.Bucket,
			PublicURL: cfg.Storage.S3.PublicURL,
		})
	default:
		return filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.BaseURL)
	}
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Cache = querycache.New(cfg.CacheTTL())

	var err error
	deps.FileStorage, err = setupFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.NoteRepository)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.AccessTokenDuration(),
		RefreshTokenExp: cfg.RefreshTokenDuration(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Services = &appServices.Services{
		AuthService: appServices.NewAuthService(
			deps.Repos.UserRepository,
			deps.Repos.TokenRepository,
			deps.JWTService,
		),
		NoteService: appServices.NewNoteService(
			deps.Repos.NoteRepository,
			deps.AuthzService,
			deps.FileStorage,
			deps.Cache,
		),
		SavedNoteService: appServices.NewSavedNoteService(
			deps.Repos.SavedNoteRepository,
			deps.Repos.NoteRepository,
			deps.Cache,
		),
		ProfileService: appServices.NewProfileService(
			deps.Repos.ProfileRepository,
			deps.FileStorage,
			deps.Cache,
		),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService)
	deps.NoteController = appControllers.NewNoteController(deps.Services.NoteService)
	deps.SavedNoteController = appControllers.NewSavedNoteController(deps.Services.SavedNoteService)
	deps.ProfileController = appControllers.NewProfileController(deps.Services.ProfileService)

	// Change notifications keep cached note lists coherent across
	// processes: any insert, update or delete reported by the database
	// drops the affected keys.
	deps.Hub = notify.NewHub(lgr)
	deps.Listener = notify.NewListener(dbPool, deps.Hub, lgr)

	return deps, nil
}

// StartChangeListener launches the database change feed and the cache
// invalidation consumer. Both stop when ctx is cancelled.
func StartChangeListener(ctx context.Context, deps *Dependencies) {
	go deps.Listener.Run(ctx)

	changes := deps.Hub.Subscribe(64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				deps.Cache.Invalidate(
					querycache.NoteKey(change.NoteID),
					querycache.KeyPublicNotes,
					querycache.UserNotesKey(change.UserID),
				)
				if change.Op == notify.OpDelete {
					deps.Cache.InvalidatePrefix(querycache.KeySavedPrefix)
				}
			}
		}
	}()
}

// StartTokenCleanup periodically removes expired and stale revoked refresh
// tokens. Stops when ctx is cancelled.
func StartTokenCleanup(ctx context.Context, deps *Dependencies) {
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanupCtx, cancel := context.WithTimeout(ctx, time.Minute)
				if _, err := deps.Repos.TokenRepository.CleanupExpiredTokens(cleanupCtx); err != nil {
					deps.Logger.Error().Err(err).Msg("Refresh token cleanup failed")
				}
				cancel()
			}
		}
	}()
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.NoteController,
		deps.SavedNoteController,
		deps.ProfileController,
		deps.AuthMiddleware,
	)

	return router
}
