package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/valefoxdev101/gdpr-education-audit/internal/knowledge"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

var (
	ingestWorkers      int
	ingestTimeout      time.Duration
	nationalCode       string
	nationalCategories []string
	syncSince          time.Duration
	syncFolder         string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Ingest legal documents into the knowledge base",
	Long: `Ingest reads legal documents (.txt, .md) from a directory tree,
chunks them with citation preservation, embeds the chunks and stores
them in the local vector store.

The first path segment of each document is its category, e.g.
regulations/, decrees/, precedents/. Documents in national categories
are tagged with the national jurisdiction code; everything else is EU.

Example:
  gdpr-audit ingest ./legal-docs
  gdpr-audit ingest ./legal-docs --national-code HU --national-categories decrees,decisions,precedents
  gdpr-audit ingest ./legal-docs --since 24h`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 4, "concurrent document ingestions")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 30*time.Minute, "total ingestion timeout")
	ingestCmd.Flags().StringVar(&nationalCode, "national-code", "HU", "jurisdiction code for national categories")
	ingestCmd.Flags().StringSliceVar(&nationalCategories, "national-categories", []string{"decrees", "decisions", "precedents"}, "categories tagged with the national jurisdiction")
	ingestCmd.Flags().DurationVar(&syncSince, "since", 0, "only sync documents modified within this window (0 = full ingest)")
	ingestCmd.Flags().StringVar(&syncFolder, "folder", "", "restrict ingestion to a subfolder")
	ingestCmd.Flags().StringVar(&knowledgeDir, "knowledge-dir", defaultKnowledgeDir(), "knowledge base persistence directory")
}

func runIngest(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Knowledge.PersistDir = knowledgeDir
	cfg.Concurrency.IngestWorkers = ingestWorkers
	cfg.Output.Verbose = verbose

	svc, store, err := buildKnowledgeService(cfg)
	if err != nil {
		return err
	}

	source := knowledge.NewFilesystemSource(dir, nationalCode, nationalCategories...)

	if syncSince > 0 {
		// Incremental sync of recently modified documents.
		cutoff := time.Now().Add(-syncSince)
		updated, err := svc.SyncChanged(ctx, source, syncFolder, cutoff)
		if err != nil {
			return fmt.Errorf("sync documents: %w", err)
		}
		fmt.Printf("✓ Synced %d changed documents\n", updated)
		persistKnowledgeBase(store, cfg)
		return nil
	}

	refs, err := source.ListChangedSince(ctx, syncFolder, time.Time{})
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if len(refs) == 0 {
		return fmt.Errorf("no documents found under %s", dir)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d documents under %s\n", len(refs), dir)
	}

	var docs []model.Document
	for _, ref := range refs {
		doc, err := source.Get(ctx, ref.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: read %s failed: %v\n", ref.ID, err)
			continue
		}
		docs = append(docs, *doc)
	}

	ingested := svc.IngestDocuments(ctx, docs, ingestWorkers)
	fmt.Printf("✓ Ingested %d/%d documents\n", ingested, len(docs))

	persistKnowledgeBase(store, cfg)
	return nil
}
