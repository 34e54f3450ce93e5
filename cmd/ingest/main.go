package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"audit-copilot-be/internal/bootstrap"
	"audit-copilot-be/internal/config"
	"audit-copilot-be/internal/dto"
	"audit-copilot-be/internal/entity"
	"audit-copilot-be/pkg/database"

	"github.com/fatih/color"
)

// Bulk-loads a directory of audit documents through the regular ingest
// pipeline, then waits for the embedding consumer to drain.
func main() {
	dir := flag.String("dir", "", "directory of .txt/.md documents to ingest")
	company := flag.String("company", "", "company tag applied to every document")
	framework := flag.String("framework", "", "compliance framework tag (e.g. SOX, SOC2)")
	docType := flag.String("type", "", "document type tag (e.g. access_review)")
	quality := flag.String("quality", "", "quality level tag")
	wait := flag.Duration("wait", 2*time.Minute, "max time to wait for embedding to finish")
	flag.Parse()

	if *dir == "" {
		color.Red("Usage: ingest -dir <path> [-company X] [-framework Y] [-type Z]")
		os.Exit(1)
	}

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Unable to connect to GORM DB: %v", err)
		os.Exit(1)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx := context.Background()
	if err := container.ConsumerService.Consume(ctx); err != nil {
		color.Red("Failed to start embedding consumer: %v", err)
		os.Exit(1)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		color.Red("Failed to read directory %s: %v", *dir, err)
		os.Exit(1)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		content, err := os.ReadFile(filepath.Join(*dir, entry.Name()))
		if err != nil {
			color.Yellow("Skipping %s: %v", entry.Name(), err)
			continue
		}

		res, err := container.DocumentService.Ingest(ctx, &dto.IngestDocumentRequest{
			Filename:            entry.Name(),
			DisplayName:         strings.TrimSuffix(entry.Name(), ext),
			Content:             string(content),
			DocumentType:        *docType,
			Company:             *company,
			ComplianceFramework: *framework,
			QualityLevel:        *quality,
		})
		if err != nil {
			color.Red("Failed to ingest %s: %v", entry.Name(), err)
			continue
		}

		color.Green("Queued %s (%s)", entry.Name(), res.Id)
		ingested++
	}

	if ingested == 0 {
		color.Yellow("No documents ingested.")
		return
	}

	color.Cyan("Waiting for %d documents to embed...", ingested)
	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		var pending int64
		if err := gormDB.Table("documents").
			Where("status = ? AND is_deleted = ?", entity.DocumentStatusPending, false).
			Count(&pending).Error; err != nil {
			log.Printf("Warn: pending count failed: %v", err)
			break
		}
		if pending == 0 {
			color.Green("✅ All documents embedded.")
			return
		}
		time.Sleep(2 * time.Second)
	}

	color.Yellow("Timed out waiting for embedding; documents will finish in the background of a running server.")
}
