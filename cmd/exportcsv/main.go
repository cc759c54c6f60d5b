package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"udemy-affiliate/internal/config"
	"udemy-affiliate/internal/domain"
	"udemy-affiliate/internal/export"
	"udemy-affiliate/internal/logger"
	"udemy-affiliate/internal/providers"
	"udemy-affiliate/internal/providers/udemy"
	"udemy-affiliate/internal/sftpclient"
)

type exportOptions struct {
	outPath    string
	maxPages   int
	search     string
	category   string
	langs      string
	uploadSFTP bool
}

func main() {
	var o exportOptions
	flag.StringVar(&o.outPath, "out", "UDEMY_CATALOG.csv", "output csv path")
	flag.IntVar(&o.maxPages, "max-pages", 1, "max pages to fetch (0 = all)")
	flag.StringVar(&o.search, "q", "", "search term")
	flag.StringVar(&o.category, "category", "", "category title")
	flag.StringVar(&o.langs, "langs", "es,en,pt", "comma separated languages to keep (empty = all)")
	flag.BoolVar(&o.uploadSFTP, "sftp", false, "upload the generated CSV via SFTP")
	flag.Parse()

	log := logger.New(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = logger.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, log, o); err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger, o exportOptions) error {
	if o.uploadSFTP && !cfg.SFTPEnabled() {
		return errors.New("-sftp needs SFTP_HOST")
	}

	rootCtx, rootCancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer rootCancel()

	if dir := filepath.Dir(o.outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	client, err := udemy.NewFromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}

	filter := udemy.CourseFilter{PageSize: udemy.Ptr(cfg.UdemyPageSize)}
	if o.search != "" {
		filter.Search = udemy.Ptr(o.search)
	}
	if o.category != "" {
		c := udemy.NewCourseCategory(o.category)
		filter.Category = &c
	}

	var prov providers.CourseProvider = udemy.Provider{C: client, Filter: filter, MaxPages: o.maxPages}
	all, err := prov.ListCourses(rootCtx)
	if err != nil {
		return fmt.Errorf("list %s courses: %w", prov.Name(), err)
	}

	filtered := all
	if allowed := langSet(o.langs); len(allowed) > 0 {
		filtered = filterCoursesByLang(all, allowed)
	}

	if err := writeCSV(o.outPath, filtered); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	log.Info().Int("written", len(filtered)).Int("fetched", len(all)).Str("out", o.outPath).Msg("catalog exported")

	if !o.uploadSFTP {
		return nil
	}

	upCfg := cfg.SFTP()
	remoteName := filepath.Base(o.outPath)

	upCtx, upCancel := context.WithTimeout(rootCtx, 5*time.Minute)
	defer upCancel()

	if err := sftpclient.UploadFile(upCtx, upCfg, o.outPath, remoteName); err != nil {
		return fmt.Errorf("sftp upload: %w", err)
	}
	log.Info().Str("host", upCfg.Host).Int("port", upCfg.Port).Str("path", upCfg.RemoteDir+"/"+remoteName).Msg("uploaded")
	return nil
}

func writeCSV(path string, courses []domain.UnifiedCourse) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteCatalogCSV(f, courses); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func langSet(s string) map[string]bool {
	out := map[string]bool{}
	for _, l := range strings.Split(s, ",") {
		if l = normalizeLang(l); l != "" {
			out[l] = true
		}
	}
	return out
}

func filterCoursesByLang(courses []domain.UnifiedCourse, allowed map[string]bool) []domain.UnifiedCourse {
	out := make([]domain.UnifiedCourse, 0, len(courses))
	for _, c := range courses {
		if allowed[normalizeLang(c.Language)] {
			out = append(out, c)
		}
	}
	return out
}

// normalizeLang reduces a locale ("pt_BR", "English") to its two-letter code.
func normalizeLang(lang string) string {
	s := strings.TrimSpace(strings.ToLower(lang))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", "-")

	switch s {
	case "english":
		return "en"
	case "spanish", "español", "espanol":
		return "es"
	case "portuguese", "português", "portugues":
		return "pt"
	}

	if len(s) >= 2 {
		return s[:2]
	}
	return s
}
