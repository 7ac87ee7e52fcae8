package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"condition-ner/cmd"
	"condition-ner/internal/api"
	"condition-ner/internal/jobs"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF9561"))
	entityStyle = lipgloss.NewStyle().Underline(true)
)

func highlight(label, text string) string {
	return labelStyle.Render(label) + " " + entityStyle.Render(text)
}

func createServer(docs []jobs.ExploredDoc, db *gorm.DB, port int) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	api.NewVisualizerService(docs, db).AddRoutes(r)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
}

func main() {
	rulesPath := flag.String("rules", "", "rule file replacing the builtin abbreviation rules")
	flag.Int64("seed", 0, "sampling seed, defaults to SAMPLE_SEED")
	noServe := flag.Bool("no-serve", false, "print matches without serving the viewer")
	cmd.LoadEnvFile()
	args := cmd.Args(1, "explore_patterns [flags] <input>")

	cfg := cmd.LoadConfig()
	env, release := cmd.NewEnv(cfg)
	defer release()
	ledger := cmd.NewLedger(cfg)

	ctx := context.Background()

	sampleSeed := cmd.SeedFlag(flag.CommandLine, "seed", cfg.SampleSeed)

	params := jobs.ExplorePatternsParams{
		Input:      args[0],
		SampleSize: cfg.SampleSize,
		Seed:       sampleSeed,
		Rules:      cmd.LoadRules(ctx, env, *rulesPath),
		Format:     highlight,
	}

	var docs []jobs.ExploredDoc
	_, err := jobs.Record(ctx, ledger, jobs.ExplorePatternsJob, sampleSeed, args, func() (jobs.ExplorePatternsStats, error) {
		var err error
		docs, err = jobs.ExplorePatterns(ctx, env, params)
		return jobs.NewExplorePatternsStats(docs), err
	})
	if err != nil {
		log.Fatalf("error exploring patterns: %v", err)
	}

	if *noServe {
		return
	}

	var db *gorm.DB
	if ledger != nil {
		db = ledger.DB()
	}
	server := createServer(docs, db, cfg.VizPort)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("serving %d docs on http://localhost:%d", len(docs), cfg.VizPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.VizPort, err)
	}

	log.Println("Server stopped.")
}
