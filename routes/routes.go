package routes

import (
	"net/http"

	"warbler/handlers"
	"warbler/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes initializes all the application routes
// The routing logic is isolated here
func SetupRoutes(userHandler *handlers.UserHandler, messageHandler *handlers.MessageHandler) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", messageHandler.Home).Methods("GET")

	// User routes. The literal paths are registered before /users/{id} so
	// mux doesn't swallow them as ids.
	router.HandleFunc("/signup", userHandler.Signup).Methods("GET", "POST")
	router.HandleFunc("/login", userHandler.Login).Methods("GET", "POST")
	router.HandleFunc("/logout", userHandler.Logout).Methods("POST")
	router.HandleFunc("/users", userHandler.List).Methods("GET")
	router.HandleFunc("/users/profile", userHandler.Profile).Methods("GET", "POST")
	router.HandleFunc("/users/delete", userHandler.Delete).Methods("POST")
	router.HandleFunc("/users/follow/{id}", userHandler.Follow).Methods("POST")
	router.HandleFunc("/users/stop-following/{id}", userHandler.StopFollowing).Methods("POST")
	router.HandleFunc("/users/{id}", userHandler.Show).Methods("GET")
	router.HandleFunc("/users/{id}/followers", userHandler.Followers).Methods("GET")
	router.HandleFunc("/users/{id}/following", userHandler.Following).Methods("GET")
	router.HandleFunc("/users/{id}/likes", userHandler.Likes).Methods("GET")

	// Message routes
	router.HandleFunc("/messages/new", messageHandler.New).Methods("POST")
	router.HandleFunc("/messages/{id}", messageHandler.Show).Methods("GET")
	router.HandleFunc("/messages/{id}/delete", messageHandler.Delete).Methods("POST")
	router.HandleFunc("/messages/{id}/like", messageHandler.Like).Methods("POST")
	router.HandleFunc("/messages/{id}/unlike", messageHandler.Unlike).Methods("POST")

	// Add metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return monitoring.InstrumentHandler(router)
}
