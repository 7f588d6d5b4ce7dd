package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valefoxdev101/gdpr-education-audit/internal/collector"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/pipeline"
	"github.com/valefoxdev101/gdpr-education-audit/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Audit multiple platform URLs from a file in parallel",
	Long: `Batch audits multiple platforms concurrently:
- Read URLs from the input file (one per line, # comments allowed)
- Scan URLs in parallel with a bounded worker count
- Write an individual JSON and Markdown report per URL

Example:
  gdpr-audit batch platforms.txt
  gdpr-audit batch platforms.txt --concurrency 5 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent scans")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./gdpr-audit-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().DurationVar(&timeout, "scan-timeout", 2*time.Minute, "timeout for individual scans")
	batchCmd.Flags().StringVar(&userAgent, "ua", "gdpr-audit/0.1 (+https://github.com/valefoxdev101/gdpr-education-audit)", "HTTP User-Agent")
	batchCmd.Flags().StringVar(&jurisdiction, "jurisdiction", "HU", "requested jurisdiction code for legal lookups")
	batchCmd.Flags().StringVar(&knowledgeDir, "knowledge-dir", defaultKnowledgeDir(), "knowledge base persistence directory")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the answer cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// scanJob audits one URL within the batch worker pool. The batch
// context carries the overall deadline; each scan gets its own shorter
// timeout on top of it.
type scanJob struct {
	url      string
	pipeline *pipeline.Pipeline
	batchCtx context.Context
	timeout  time.Duration
}

type scanResult struct {
	url    string
	report *model.Report
	err    error
}

func (r scanResult) GetError() error { return r.err }

func (j scanJob) Execute(ctx context.Context) worker.Result {
	scanCtx, cancel := context.WithTimeout(j.batchCtx, j.timeout)
	defer cancel()

	report, err := j.pipeline.ScanURL(scanCtx, j.url)
	return scanResult{url: j.url, report: report, err: err}
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	urls, err := readURLFile(file)
	if err != nil {
		return fmt.Errorf("read URL file: %w", err)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", file)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cfg := buildScanConfig()

	svc, _, err := buildKnowledgeService(cfg)
	if err != nil {
		return err
	}

	col := collector.NewHTTPCollector(cfg.HTTP)
	p := pipeline.New(col, svc, cfg)

	fmt.Fprintf(os.Stderr, "Auditing %d URLs with %d workers\n\n", len(urls), concurrency)

	pool := worker.NewPool(concurrency)
	pool.Start()
	for _, u := range urls {
		pool.Submit(scanJob{url: u, pipeline: p, batchCtx: ctx, timeout: timeout})
	}
	results := pool.Wait()

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, r := range results {
		res := r.(scanResult)
		if res.err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.url, res.err)
			continue
		}

		slug := slugFromURL(res.url)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(res.report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write JSON: %v\n", res.url, err)
			continue
		}
		if err := renderer.RenderMarkdown(res.report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write Markdown: %v\n", res.url, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (score: %d/100, violations: %d)\n",
			res.url, res.report.Summary.ComplianceScore, res.report.Summary.TotalViolations)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d succeeded, %d failed, reports in %s\n",
		successCount, failureCount, outputDir)

	return nil
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// slugFromURL derives a safe file name from a URL.
func slugFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return sanitizeFilename(rawURL)
	}
	slug := parsed.Host
	if path := strings.Trim(parsed.Path, "/"); path != "" {
		slug += "-" + path
	}
	return sanitizeFilename(slug)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
