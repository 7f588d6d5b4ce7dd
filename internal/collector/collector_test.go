package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Exam Portal</title>
<script src="https://www.google-analytics.com/analytics.js"></script>
<script src="https://cdn.proctorio.com/widget.js"></script>
<script>
document.cookie = "theme=dark";
localStorage.setItem('student_id', '42');
navigator.mediaDevices.getUserMedia({video: true});
</script>
</head>
<body>
<p>Please provide your date of birth before starting the exam.</p>
<form action="/register">
  <input type="email" name="email">
  <input type="password" name="pw">
</form>
<a href="/privacy-policy">Privacy Policy</a>
</body>
</html>`

func testConfig(timeout time.Duration) model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      timeout,
		UserAgent:    "gdpr-audit-test/0.1",
		MaxBodyBytes: 1 << 20,
	}
}

func TestExtractSignals(t *testing.T) {
	signals, err := ExtractSignals(samplePage, "https://school.example.com/")
	if err != nil {
		t.Fatalf("ExtractSignals: %v", err)
	}

	if len(signals.Forms) != 1 {
		t.Fatalf("forms = %d, want 1", len(signals.Forms))
	}
	if got := signals.Forms[0].InputTypes; len(got) != 2 || got[0] != "email" || got[1] != "password" {
		t.Errorf("input types = %v, want [email password]", got)
	}

	if !strings.HasSuffix(signals.PrivacyPolicyURL, "/privacy-policy") {
		t.Errorf("privacy policy URL = %q", signals.PrivacyPolicyURL)
	}

	var analytics, proctorHost bool
	for _, svc := range signals.ThirdPartyService {
		if svc.Category == model.ServiceAnalytics {
			analytics = true
		}
		if strings.Contains(svc.Host, "proctorio") {
			proctorHost = true
		}
	}
	if !analytics {
		t.Error("expected an analytics service signal")
	}
	if !proctorHost {
		t.Error("expected the proctoring host among third-party services")
	}

	kinds := map[model.BiometricKind]bool{}
	for _, b := range signals.Biometric {
		kinds[b.Kind] = true
	}
	if !kinds[model.BiometricProctoring] {
		t.Error("expected a proctoring biometric signal")
	}
	if !kinds[model.BiometricWebcam] {
		t.Error("expected a webcam biometric signal")
	}

	if len(signals.Cookies) != 1 || signals.Cookies[0].Name != "theme" {
		t.Errorf("cookies = %v, want [theme]", signals.Cookies)
	}
	if len(signals.LocalStorage) != 1 || signals.LocalStorage[0] != "student_id" {
		t.Errorf("localStorage = %v, want [student_id]", signals.LocalStorage)
	}

	if signals.Education == nil {
		t.Fatal("expected education features")
	}
	if !signals.Education.CollectsMinorData {
		t.Error("expected CollectsMinorData from date-of-birth text")
	}
	if !signals.Education.HasExamFeatures {
		t.Error("expected HasExamFeatures from exam text")
	}
}

func TestExtractSignals_CleanPage(t *testing.T) {
	page := `<html><body><p>Welcome to our library catalog.</p></body></html>`
	signals, err := ExtractSignals(page, "https://lib.example.com/")
	if err != nil {
		t.Fatalf("ExtractSignals: %v", err)
	}

	if len(signals.Biometric) != 0 || len(signals.ThirdPartyService) != 0 || len(signals.Cookies) != 0 {
		t.Errorf("expected no signals, got %+v", signals)
	}
	if signals.Education != nil {
		t.Errorf("expected no education features, got %+v", signals.Education)
	}
}

func TestCollect_MergesResponseCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "abc", Secure: true})
		http.SetCookie(w, &http.Cookie{Name: "_tracker", Value: "xyz"})
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	c := NewHTTPCollector(testConfig(5 * time.Second))
	signals, err := c.Collect(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	names := map[string]bool{}
	for _, ck := range signals.Cookies {
		names[ck.Name] = true
	}
	for _, want := range []string{"session_id", "_tracker", "theme"} {
		if !names[want] {
			t.Errorf("missing cookie %q in %v", want, names)
		}
	}
}

func TestCollect_FailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewHTTPCollector(testConfig(5 * time.Second))
	if _, err := c.Collect(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestCollect_RespectsRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /exam\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testConfig(5 * time.Second)
	cfg.RespectRobots = true
	c := NewHTTPCollector(cfg)

	if _, err := c.Collect(context.Background(), server.URL+"/exam/start"); err == nil {
		t.Fatal("expected robots.txt to block /exam")
	}
	if _, err := c.Collect(context.Background(), server.URL+"/about"); err != nil {
		t.Fatalf("allowed path should succeed: %v", err)
	}
}
