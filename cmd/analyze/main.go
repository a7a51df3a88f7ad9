// Command analyze runs one vacancy analysis from the terminal: fetch,
// analyze, print the report. Useful for trying queries without a bot.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hh-tools/go-analyzer/internal/analytics"
	"github.com/hh-tools/go-analyzer/internal/analytics/salary"
	"github.com/hh-tools/go-analyzer/internal/archive"
	"github.com/hh-tools/go-analyzer/internal/config"
	"github.com/hh-tools/go-analyzer/internal/hhapi"
	"github.com/hh-tools/go-analyzer/internal/indexer"
	"github.com/hh-tools/go-analyzer/internal/report"
	"github.com/hh-tools/go-analyzer/internal/store"
)

func main() {
	query := flag.String("query", "", "vacancy search query (required)")
	area := flag.String("area", "", "city name or hh.ru area ID, empty for all")
	pages := flag.Int("pages", 0, "page limit override, 100 vacancies per page")
	asJSON := flag.Bool("json", false, "print the raw summary as JSON instead of the report")
	save := flag.Bool("save", false, "save the analysis to PostgreSQL")
	doArchive := flag.Bool("archive", false, "archive fetched vacancies to Elasticsearch")
	flag.Parse()

	if *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if *pages > 0 {
		cfg.HH.MaxPages = *pages
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := hhapi.NewClient(
		hhapi.WithBaseURL(cfg.HH.BaseURL),
		hhapi.WithPagination(cfg.HH.PerPage, cfg.HH.MaxPages),
		hhapi.WithPageDelay(cfg.HH.RequestDelay),
	)

	vacancies, err := client.SearchAll(ctx, hhapi.SearchParams{Text: *query, Area: *area})
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	rates := salary.Rates{"USD": cfg.Rates.USD, "EUR": cfg.Rates.EUR}
	summary, err := analytics.New(rates).Analyze(vacancies)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *asJSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			log.Fatalf("Marshal failed: %v", err)
		}
		fmt.Println(string(out))
	} else {
		fmt.Println(report.Text(summary, *query, *area))
	}

	if *save {
		if !cfg.Postgres.Enabled {
			log.Fatal("POSTGRES_URL is not set")
		}
		st, err := store.New(cfg.Postgres.URL)
		if err != nil {
			log.Fatalf("Postgres connection failed: %v", err)
		}
		defer st.Close()

		id, err := st.SaveAnalysis(ctx, *query, *area, 0, summary)
		if err != nil {
			log.Fatalf("Save failed: %v", err)
		}
		log.Printf("Analysis saved, id=%d", id)
	}

	if *doArchive {
		if !cfg.Elasticsearch.Enabled {
			log.Fatal("ELASTICSEARCH_URL is not set")
		}
		esIndexer, err := indexer.NewElasticsearchIndexer(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index)
		if err != nil {
			log.Fatalf("Elasticsearch connection failed: %v", err)
		}
		if err := esIndexer.EnsureIndex(ctx); err != nil {
			log.Printf("Warning: Failed to ensure index: %v", err)
		}

		archiver := archive.New(esIndexer, archive.Config{
			Concurrency: cfg.Archive.Concurrency,
			BatchSize:   cfg.Archive.BatchSize,
		})
		if err := archiver.Archive(ctx, vacancies); err != nil {
			log.Fatalf("Archive failed: %v", err)
		}
		log.Printf("Archived %d vacancies", len(vacancies))
	}
}
