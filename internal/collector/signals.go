package collector

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// knownServices maps third-party host substrings to a service name and
// category. Matching is on the script host, longest pattern first.
var knownServices = []struct {
	pattern  string
	name     string
	category model.ServiceCategory
}{
	{"google-analytics.com", "Google Analytics", model.ServiceAnalytics},
	{"googletagmanager.com", "Google Tag Manager", model.ServiceAnalytics},
	{"hotjar.com", "Hotjar", model.ServiceAnalytics},
	{"mixpanel.com", "Mixpanel", model.ServiceAnalytics},
	{"segment.com", "Segment", model.ServiceAnalytics},
	{"doubleclick.net", "Google Ads", model.ServiceAds},
	{"googlesyndication.com", "Google AdSense", model.ServiceAds},
	{"adservice.google", "Google Ads", model.ServiceAds},
	{"facebook.net", "Facebook Pixel", model.ServiceSocial},
	{"connect.facebook", "Facebook SDK", model.ServiceSocial},
	{"platform.twitter.com", "Twitter Widget", model.ServiceSocial},
	{"platform.linkedin.com", "LinkedIn Widget", model.ServiceSocial},
	{"cloudflare.com", "Cloudflare", model.ServiceCDN},
	{"jsdelivr.net", "jsDelivr", model.ServiceCDN},
	{"unpkg.com", "unpkg", model.ServiceCDN},
	{"cdnjs.cloudflare.com", "cdnjs", model.ServiceCDN},
}

// proctoringVendors are hosts and script names of exam proctoring
// products that process webcam and screen data.
var proctoringVendors = []string{
	"proctorio", "proctoru", "examity", "respondus", "honorlock",
	"proctorexam", "examsoft",
}

var (
	jsCookieRe       = regexp.MustCompile(`document\.cookie\s*=\s*["']([A-Za-z0-9_.-]+)=`)
	localStorageRe   = regexp.MustCompile(`localStorage\.setItem\(\s*["']([A-Za-z0-9_.-]+)["']`)
	getUserMediaRe   = regexp.MustCompile(`getUserMedia|mediaDevices`)
	faceAPIRe        = regexp.MustCompile(`(?i)face-api|facedetect|FaceDetector|face_recognition`)
	minorDataRe      = regexp.MustCompile(`(?i)parental consent|under\s+1[38]|date of birth|birth\s?date|student profile|pupil|grade level|school class`)
	examFeatureRe    = regexp.MustCompile(`(?i)\bexam(?:s|ination)?\b|\bquiz(?:zes)?\b|\bassessment\b|\bproctor`)
	privacyPolicyRe = regexp.MustCompile(`(?i)privacy`)
)

// ExtractSignals parses the page HTML and derives the scan signal set.
// The base URL decides which script hosts count as third party.
func ExtractSignals(htmlContent, sourceURL string) (*model.ScanSignalSet, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(sourceURL)
	if err != nil {
		return nil, err
	}

	ex := &signalExtractor{base: baseURL, signals: &model.ScanSignalSet{}}
	ex.walk(doc)
	ex.finish(htmlContent)

	return ex.signals, nil
}

type signalExtractor struct {
	base       *url.URL
	signals    *model.ScanSignalSet
	scriptText strings.Builder
	seenHosts  map[string]bool
	seenKeys   map[string]bool
}

func (ex *signalExtractor) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "form":
			ex.addForm(n)
		case "script":
			ex.addScript(n)
		case "a":
			ex.addLink(n)
		case "video":
			ex.signals.Biometric = append(ex.signals.Biometric, model.BiometricSignal{
				Kind:     model.BiometricWebcam,
				Evidence: "video element",
			})
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ex.walk(c)
	}
}

func (ex *signalExtractor) addForm(n *html.Node) {
	form := model.FormSignal{Action: attr(n, "action")}

	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.ElementNode && (c.Data == "input" || c.Data == "select" || c.Data == "textarea") {
			t := attr(c, "type")
			if t == "" {
				t = c.Data
			}
			form.InputTypes = append(form.InputTypes, t)
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			collect(gc)
		}
	}
	collect(n)

	ex.signals.Forms = append(ex.signals.Forms, form)
}

func (ex *signalExtractor) addScript(n *html.Node) {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			ex.scriptText.WriteString(n.FirstChild.Data)
			ex.scriptText.WriteString("\n")
		}
		return
	}

	resolved, err := url.Parse(src)
	if err != nil {
		return
	}
	resolved = ex.base.ResolveReference(resolved)
	host := resolved.Host
	if host == "" || host == ex.base.Host {
		return
	}

	ex.addProctoring(host, src)

	if ex.seenHosts == nil {
		ex.seenHosts = make(map[string]bool)
	}
	if ex.seenHosts[host] {
		return
	}
	ex.seenHosts[host] = true

	ex.signals.ThirdPartyService = append(ex.signals.ThirdPartyService, classifyService(host))
}

func (ex *signalExtractor) addProctoring(host, src string) {
	lower := strings.ToLower(host + " " + src)
	for _, vendor := range proctoringVendors {
		if strings.Contains(lower, vendor) {
			ex.signals.Biometric = append(ex.signals.Biometric, model.BiometricSignal{
				Kind:     model.BiometricProctoring,
				Provider: vendor,
				Evidence: "script " + src,
			})
			return
		}
	}
}

func (ex *signalExtractor) addLink(n *html.Node) {
	if ex.signals.PrivacyPolicyURL != "" {
		return
	}

	href := strings.TrimSpace(attr(n, "href"))
	if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return
	}

	text := ""
	if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
		text = n.FirstChild.Data
	}

	if !privacyPolicyRe.MatchString(href) && !privacyPolicyRe.MatchString(text) {
		return
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return
	}
	ex.signals.PrivacyPolicyURL = ex.base.ResolveReference(parsed).String()
}

// finish derives the signals that come from script bodies and page text
// rather than the element tree.
func (ex *signalExtractor) finish(htmlContent string) {
	scripts := ex.scriptText.String()

	for _, m := range jsCookieRe.FindAllStringSubmatch(scripts, -1) {
		ex.signals.Cookies = append(ex.signals.Cookies, model.CookieSignal{Name: m[1]})
	}

	ex.seenKeys = make(map[string]bool)
	for _, m := range localStorageRe.FindAllStringSubmatch(scripts, -1) {
		if !ex.seenKeys[m[1]] {
			ex.seenKeys[m[1]] = true
			ex.signals.LocalStorage = append(ex.signals.LocalStorage, m[1])
		}
	}
	sort.Strings(ex.signals.LocalStorage)

	if getUserMediaRe.MatchString(scripts) {
		ex.signals.Biometric = append(ex.signals.Biometric, model.BiometricSignal{
			Kind:     model.BiometricWebcam,
			Evidence: "getUserMedia call in inline script",
		})
	}
	if faceAPIRe.MatchString(scripts) {
		ex.signals.Biometric = append(ex.signals.Biometric, model.BiometricSignal{
			Kind:     model.BiometricFaceAPI,
			Evidence: "face detection API in inline script",
		})
	}

	edu := model.EducationFeatures{
		CollectsMinorData: minorDataRe.MatchString(htmlContent),
		HasExamFeatures:   examFeatureRe.MatchString(htmlContent),
	}
	if edu.CollectsMinorData || edu.HasExamFeatures {
		ex.signals.Education = &edu
	}
}

func classifyService(host string) model.ThirdPartySignal {
	lower := strings.ToLower(host)
	for _, svc := range knownServices {
		if strings.Contains(lower, svc.pattern) {
			return model.ThirdPartySignal{Name: svc.name, Host: host, Category: svc.category}
		}
	}
	return model.ThirdPartySignal{Name: host, Host: host, Category: model.ServiceOther}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
