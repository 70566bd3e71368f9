package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/config"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/token"
)

// Stores bundles the storage interfaces the endpoints depend on.
type Stores struct {
	Users   store.UserStore
	Clients store.ClientStore
	Health  store.HealthStore
}

type Server struct {
	Config      *config.OauthConfig
	Router      *mux.Router
	DB          *gorm.DB
	UserStore   store.UserStore
	ClientStore store.ClientStore
	HealthStore store.HealthStore
	Issuer      *token.Issuer
	QQIssuer    *token.Issuer
	Providers   map[provider.Kind]provider.Provider
	Sessions    *sessions.CookieStore
	srv         *http.Server
}

func NewServer(
	cfg *config.OauthConfig,
	db *gorm.DB,
	stores Stores,
	providers map[provider.Kind]provider.Provider,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, cors(router)),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	cookieStore := sessions.NewCookieStore([]byte(cfg.SessionSecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		Config:      cfg,
		Router:      router,
		DB:          db,
		UserStore:   stores.Users,
		ClientStore: stores.Clients,
		HealthStore: stores.Health,
		Issuer:      token.NewIssuer(cfg.SecretKey),
		QQIssuer:    token.NewIssuer(cfg.QQSigningKey()),
		Providers:   providers,
		Sessions:    cookieStore,
		srv:         srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
