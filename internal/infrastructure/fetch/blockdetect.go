package fetch

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot page a vendor served.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockRobotCheck BlockType = "robot_check"
)

// DetectBlock checks a vendor response for signs of anti-bot protection.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") {
		return true, BlockCloudflare
	}

	// Amazon's robot check page
	if strings.Contains(lower, "/errors/validatecaptcha") ||
		strings.Contains(lower, "enter the characters you see below") {
		return true, BlockRobotCheck
	}

	// Result pages legitimately mention captcha in scripts; only short pages count.
	if len(body) < 5000 && (strings.Contains(lower, "captcha") || strings.Contains(lower, "are you a human")) {
		return true, BlockCaptcha
	}

	return false, BlockNone
}
