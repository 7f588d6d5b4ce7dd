package model

// ScanSignalSet is the fixed schema produced by a platform signal
// collector. It is created once per scan and read-only thereafter.
type ScanSignalSet struct {
	Cookies           []CookieSignal      `json:"cookies"`
	LocalStorage      []string            `json:"local_storage"` // Observed localStorage keys
	Forms             []FormSignal        `json:"forms"`
	PrivacyPolicyURL  string              `json:"privacy_policy_url,omitempty"` // Empty when no link was discovered
	Biometric         []BiometricSignal   `json:"biometric"`
	ThirdPartyService []ThirdPartySignal  `json:"third_party_services"`
	Education         *EducationFeatures  `json:"education_features,omitempty"`
}

// CookieSignal describes a cookie observed on the target platform.
type CookieSignal struct {
	Name   string `json:"name"`
	Domain string `json:"domain,omitempty"`
	Secure bool   `json:"secure,omitempty"`
}

// FormSignal describes a form and the kinds of inputs it collects.
type FormSignal struct {
	Action     string   `json:"action,omitempty"`
	InputTypes []string `json:"input_types"` // e.g. "email", "password", "file"
}

// BiometricKind classifies a biometric processing indicator.
type BiometricKind string

const (
	BiometricProctoring BiometricKind = "proctoring_service" // Third-party exam proctoring
	BiometricWebcam     BiometricKind = "webcam_capability"  // Webcam/getUserMedia access
	BiometricFaceAPI    BiometricKind = "face_detection_api" // Face detection/recognition API use
)

// BiometricSignal is an indicator of biometric data processing.
type BiometricSignal struct {
	Kind     BiometricKind `json:"kind"`
	Provider string        `json:"provider,omitempty"` // Vendor for proctoring services
	Evidence string        `json:"evidence,omitempty"` // Where the indicator was observed
}

// ServiceCategory classifies a detected third-party service.
type ServiceCategory string

const (
	ServiceAnalytics ServiceCategory = "analytics"
	ServiceAds       ServiceCategory = "ads"
	ServiceSocial    ServiceCategory = "social"
	ServiceCDN       ServiceCategory = "cdn"
	ServiceOther     ServiceCategory = "other"
)

// ThirdPartySignal describes an external service loaded by the platform.
type ThirdPartySignal struct {
	Name     string          `json:"name"`
	Host     string          `json:"host"`
	Category ServiceCategory `json:"category"`
}

// EducationFeatures captures education-platform specifics relevant to
// minor-data protection.
type EducationFeatures struct {
	CollectsMinorData bool `json:"collects_minor_data"` // Registration/profiles indicate under-18 users
	HasExamFeatures   bool `json:"has_exam_features"`   // Exam/assessment functionality present
}
