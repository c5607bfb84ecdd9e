package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/spacebrain/backend/internal/database"
	mW "github.com/spacebrain/backend/internal/middleware"
	"github.com/spacebrain/backend/internal/services"
	"github.com/spacebrain/backend/internal/store"
)

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	viper.BindEnv("database.migrate", "DATABASE_MIGRATE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("argon2.salt_length", "ARGON2_SALT_LENGTH")

	viper.BindEnv("static.dir", "STATIC_DIR")
	viper.SetDefault("static.dir", "./groundcontrol")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize storage
	db := database.InitDatabase()
	defer db.Close()

	st := store.New(db)
	if viper.GetBool("database.migrate") {
		if err := st.Migrate(); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
		log.Println("Schema migration applied")
	}

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	accessService := services.NewAccessService(st, redisClient)
	logService := services.NewLogService(st)
	userService := services.NewUserService(st)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Brain API. The whole surface is GET with path parameters; the
	// groundcontrol client and the gate/door controllers depend on
	// these exact paths and response formats.
	r.Route("/brain", func(r chi.Router) {
		r.Get("/access/gsmnumbers/all", accessService.GsmNumbers)
		r.Get("/access/badgenumbers/all", accessService.BadgeNumbers)

		r.Get("/logs/from/{from}/to/{to}", logService.Range)
		r.Get("/logs/add/{system}/{attribute}/{message}", logService.Add)

		r.Get("/user/all", userService.All)
		r.Get("/user/{id}/phonenumbers", userService.PhoneNumbers)
		r.Get("/user/update/{id}/{first}/{last}/{member}", userService.Update)
		r.Get("/user/delete/{id}", userService.Delete)
		r.Get("/user/updatephonenumber/{id}/{userId}/{number}/{cellphone}", userService.UpdatePhoneNumber)
		r.Get("/user/deletephonenumber/{id}", userService.DeletePhoneNumber)
		r.Get("/user/{id}/updatepassword/{username}/{password}", userService.SetCredential)

		r.Get("/login/{username}/{password}", userService.Login)
	})

	// groundcontrol web client, served statically from the configured
	// directory.
	r.Handle("/*", mW.StaticFileServer(viper.GetString("static.dir")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
