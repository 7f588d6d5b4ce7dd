package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/valefoxdev101/gdpr-education-audit/internal/collector"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	timeout      time.Duration
	userAgent    string
	maxBytes     int64
	noCache      bool
	noFooter     bool
	insecureTLS  bool
	noRobots     bool
	httpProxy    string
	httpsProxy   string
	jurisdiction string
	knowledgeDir string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Audit a single education platform URL",
	Long: `Scan fetches a platform page, extracts compliance signals
(cookies, forms, biometric indicators, third-party services, education
features), detects GDPR violations and enriches each one with retrieved
legal context: severity, precedents and a remediation plan.

A knowledge base must be ingested first; see 'gdpr-audit ingest'.

Example:
  gdpr-audit scan https://school.example.com
  gdpr-audit scan https://school.example.com --json report.json --md report.md
  gdpr-audit scan https://school.example.com --jurisdiction HU`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// HTTP flags
	scanCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", "gdpr-audit/0.1 (+https://github.com/valefoxdev101/gdpr-education-audit)", "HTTP User-Agent")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	scanCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	scanCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt check")
	scanCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scanCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Knowledge flags
	scanCmd.Flags().StringVar(&jurisdiction, "jurisdiction", "HU", "requested jurisdiction code for legal lookups")
	scanCmd.Flags().StringVar(&knowledgeDir, "knowledge-dir", defaultKnowledgeDir(), "knowledge base persistence directory")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the answer cache")
	scanCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildScanConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Jurisdiction: %s\n", cfg.Knowledge.Jurisdiction)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	svc, _, err := buildKnowledgeService(cfg)
	if err != nil {
		return err
	}

	col := collector.NewHTTPCollector(cfg.HTTP)
	p := pipeline.New(col, svc, cfg)

	report, err := p.ScanURL(ctx, url)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Detected %d violations\n", len(report.Violations))
		fmt.Fprintf(os.Stderr, "✓ Compliance score: %d/100\n", report.Summary.ComplianceScore)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildScanConfig builds the runtime configuration from flags.
func buildScanConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.RespectRobots = !noRobots
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Knowledge.Jurisdiction = jurisdiction
	cfg.Knowledge.PersistDir = knowledgeDir
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	return cfg
}

// defaultKnowledgeDir is where the persisted vector store lives.
func defaultKnowledgeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gdpr-audit/knowledge"
	}
	return home + "/.gdpr-audit/knowledge"
}
