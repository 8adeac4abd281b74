package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"librosapi/internal/author"
	"librosapi/internal/book"
	"librosapi/internal/cover"
	"librosapi/internal/httpx"
	"librosapi/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	queryTimeout = 5 * time.Second
	// Multipart bodies must fit the 5 MiB cover plus form overhead.
	maxRequestBytes = 10 << 20
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	serverAddress := ":" + getEnv("PORT", "3000")
	uploadDir := getEnv("UPLOAD_DIR", "uploads")
	rps := getEnvFloat("RATE_LIMIT_RPS", 50)
	burst := getEnvInt("RATE_LIMIT_BURST", 100)
	corsOrigins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",")

	dbPool := mustOpenDB(databaseDSN())
	defer dbPool.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx, dbPool); err != nil {
		log.Fatalf("database initialization error: %v", err)
	}
	seeded, err := store.SeedIfEmpty(ctx, dbPool)
	if err != nil {
		log.Fatalf("seed error: %v", err)
	}
	if seeded {
		log.Println("sample data inserted")
	}

	covers, err := cover.NewStore(uploadDir)
	if err != nil {
		log.Fatalf("cover store: %v", err)
	}

	authorService := author.NewService(author.NewPostgresRepo(dbPool, queryTimeout))
	bookService := book.NewService(book.NewPostgresRepo(dbPool, queryTimeout), covers)

	authorHandler := author.NewHTTPHandler(authorService)
	bookHandler := book.NewHTTPHandler(bookService)

	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /login", authorHandler.Login)
	router.HandleFunc("GET /libros", bookHandler.List)
	router.HandleFunc("POST /libros", bookHandler.Create)
	router.HandleFunc("GET /libros/{id}", bookHandler.GetByID)
	router.HandleFunc("PUT /libros/{id}", bookHandler.Update)
	router.HandleFunc("DELETE /libros/{id}", bookHandler.Delete)

	router.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(covers.Dir()))))

	rateLimit := httpx.NewRateLimitMiddleware(rps, burst)
	corsMiddleware := httpx.CORSMiddleware(corsOrigins)
	sizeLimit := httpx.RequestSizeLimitMiddleware(maxRequestBytes)

	handler := httpx.RequestIDMiddleware(
		httpx.RecoveryMiddleware(
			httpx.AccessLogMiddleware(
				httpx.SecurityHeadersMiddleware(
					corsMiddleware(
						rateLimit.Middleware(
							sizeLimit(router)))))))

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server running on %s", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// databaseDSN takes DB_DSN whole when set, otherwise builds one from the
// individual connection variables and their defaults.
func databaseDSN() string {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "libroslibres"),
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
