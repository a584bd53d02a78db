package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/auth"
	"github.com/dayflow-app/dayflow-backend/pkg/communication"
	"github.com/dayflow-app/dayflow-backend/pkg/environment"
	"github.com/dayflow-app/dayflow-backend/pkg/locking"
	"github.com/dayflow-app/dayflow-backend/pkg/logger"
	"github.com/dayflow-app/dayflow-backend/pkg/planning"
	"github.com/dayflow-app/dayflow-backend/pkg/ratelimit"
	"github.com/dayflow-app/dayflow-backend/pkg/users"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

func main() {
	var logging logger.Interface = logger.Logger{}
	fmt.Println("Server is starting up...")

	environment.Initialize()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     environment.Global.Redis,
		Password: environment.Global.RedisPassword,
	})

	var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logging.Fatal(err)
	}

	fmt.Println("Database connected")

	responseManager := communication.ResponseManager{Logger: logging}

	userRepository := users.UserRepository{DB: redisClient, Logger: logging}
	userHandler := users.Handler{
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
	}

	source := planning.NewSourceRedis(redisClient, logging)
	placementRepository := planning.PlacementRepository{DB: redisClient, Logger: logging}

	snapshotCache := planning.NewSnapshotCacheRedis(redisClient)
	locker := locking.NewLockerRedis(redisClient)

	planningService := planning.NewPlanningService(
		userRepository, placementRepository, source, source,
		snapshotCache, logging, locker)

	planningHandler := planning.Handler{
		Service:         planningService,
		SyncTarget:      source,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	authMiddleware := auth.AuthenticationMiddleware{
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
	}

	maxRequests, err := strconv.ParseInt(environment.Global.RateLimit, 10, 64)
	if err != nil {
		maxRequests = 0
	}

	rateLimiter := ratelimit.RateLimiter{
		Store:           ratelimit.NewStoreRedis(redisClient),
		ResponseManager: &responseManager,
		Logger:          logging,
		Resource:        "api",
		MaxRequests:     maxRequests,
		WindowSeconds:   60,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)

		_, err := fmt.Fprint(writer, "Welcome to the API! ✔")
		if err != nil {
			log.Printf("Error: %v\n", err)
		}
	})

	unauthenticated := r.PathPrefix("/v1/auth").Subrouter()
	unauthenticated.HandleFunc("/register", userHandler.UserRegister).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/login", userHandler.UserLogin).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/refresh", userHandler.UserRefresh).Methods(http.MethodPost)

	authenticated := r.PathPrefix("/v1").Subrouter()
	authenticated.Use(authMiddleware.Middleware)
	authenticated.Use(rateLimiter.Middleware)

	authenticated.HandleFunc("/user", userHandler.UserGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/user/settings", userHandler.UserSettingsPatch).Methods(http.MethodPatch)

	authenticated.HandleFunc("/planning/autofit", planningHandler.AutoFit).Methods(http.MethodPost)
	authenticated.HandleFunc("/planning/{date}/placements", planningHandler.PlacementsGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/planning/{date}/placements", planningHandler.PlacementAdd).Methods(http.MethodPost)
	authenticated.HandleFunc("/planning/{date}/placements/{placementID}", planningHandler.PlacementDelete).Methods(http.MethodDelete)
	authenticated.HandleFunc("/planning/{date}/snapshot", planningHandler.SnapshotRefresh).Methods(http.MethodDelete)

	authenticated.HandleFunc("/sync/tasks", planningHandler.SyncTasks).Methods(http.MethodPut)
	authenticated.HandleFunc("/sync/events", planningHandler.SyncEvents).Methods(http.MethodPut)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			next.ServeHTTP(w, r)
		})
	})

	port := environment.Global.Port
	if port == "" {
		port = "80"
	}

	log.Panic(http.ListenAndServe(":"+port, r))
}
