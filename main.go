package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eticket/internal/branding"
	intconfig "eticket/internal/config"
	router "eticket/internal/http"
	"eticket/internal/http/handlers"
	"eticket/internal/metrics"
	"eticket/internal/render"
	"eticket/internal/services"
	"eticket/internal/ticket"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if err := env.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx := context.Background()
	st, err := intconfig.OpenStore(ctx, env)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer st.Close()

	aliases, err := ticket.LoadAliases(env.AliasesFile)
	if err != nil {
		log.Fatalf("aliases: %v", err)
	}

	m := metrics.New()
	builder := ticket.NewBuilder(render.NewSurface, branding.NewLoader(env.LogoFetchTimeout, env.MaxLogoBytes, env.LogoAllowedHosts...))
	builder.Aliases = aliases
	builder.Formatter.Measure = render.MeasureText

	bookings := services.BookingService{Store: st, Metrics: m}
	h := &handlers.Handler{
		Bookings:     bookings,
		Docs:         services.DocsService{Builder: builder, Store: st, Metrics: m},
		Auth:         services.AuthService{Store: st, Secret: []byte(env.JWTSecret)},
		Export:       services.ExportService{Bookings: bookings, Aliases: aliases},
		Store:        st,
		MaxLogoBytes: env.MaxLogoBytes,
	}

	r := router.NewRouter(env, h, m)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s (store=%s)", env.AppAddr, env.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
