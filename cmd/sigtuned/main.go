// Command sigtuned is the sigtune parameter service.
// It owns the active scoring parameter set, serves the control-plane API
// for applying overrides, records update history, and archives snapshots
// of every applied configuration.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/sigtune/sigtune/internal/api"
	"github.com/sigtune/sigtune/internal/archive"
	"github.com/sigtune/sigtune/internal/audit"
	"github.com/sigtune/sigtune/internal/platform"
	"github.com/sigtune/sigtune/pkg/config"
	"github.com/sigtune/sigtune/pkg/params"
)

type envConfig struct {
	Port           string
	DatabaseURL    string
	ConfigFile     string
	Profile        string
	APIKey         string
	StorageBackend string
	StoragePath    string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	GCSBucket      string
}

func loadEnv() envConfig {
	return envConfig{
		Port:           envOrDefault("PORT", ""),
		DatabaseURL:    envOrDefault("DATABASE_URL", "postgres://localhost:5432/sigtune?sslmode=disable"),
		ConfigFile:     envOrDefault("SIGTUNE_CONFIG", "/etc/sigtune/config.yaml"),
		Profile:        envOrDefault("SIGTUNE_PROFILE", "default"),
		APIKey:         os.Getenv("SIGTUNE_API_KEY"),
		StorageBackend: os.Getenv("STORAGE_BACKEND"),
		StoragePath:    envOrDefault("LOCAL_STORAGE_PATH", "/var/lib/sigtune/snapshots"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       os.Getenv("S3_REGION"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
	}
}

func main() {
	env := loadEnv()
	ctx := context.Background()

	cfg, err := config.Load(env.ConfigFile)
	if err != nil {
		log.Fatalf("load config %s: %v", env.ConfigFile, err)
	}

	// Environment beats file for deployment-shaped settings.
	port := cfg.Service.Port
	if env.Port != "" {
		port = env.Port
	}
	apiKey := cfg.Service.APIKey
	if env.APIKey != "" {
		apiKey = env.APIKey
	}
	backend := cfg.Service.StorageBackend
	if env.StorageBackend != "" {
		backend = env.StorageBackend
	}

	db, err := sql.Open("postgres", env.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}
	if err := platform.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	storage, err := newStorage(ctx, backend, env)
	if err != nil {
		log.Fatalf("init %s storage: %v", backend, err)
	}

	store := params.NewStore(cfg.Defaults.ParameterSet(), cfg.Service.FrequencyWeight, log.Default())
	historySvc := audit.NewService(db)

	handler := api.NewHandler(store, historySvc, storage, env.Profile, log.Default())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.HandleFunc("GET /healthz", healthHandler(db))

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: api.CORS(api.APIKeyAuth(apiKey)(mux)),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting sigtuned on :%s (profile %s, params %s)", port, env.Profile, store.Render())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newStorage(ctx context.Context, backend string, env envConfig) (archive.StorageClient, error) {
	switch backend {
	case "", "local":
		return archive.NewLocalStorage(env.StoragePath), nil
	case "s3":
		return archive.NewS3Storage(ctx, archive.S3Config{
			Bucket:    env.S3Bucket,
			Region:    env.S3Region,
			Endpoint:  env.S3Endpoint,
			AccessKey: env.S3AccessKey,
			SecretKey: env.S3SecretKey,
		})
	case "gcs":
		return archive.NewGCSStorage(ctx, env.GCSBucket)
	}
	return nil, fmt.Errorf("unknown storage backend %q (expected local, s3, or gcs)", backend)
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
