package config

import (
	"fmt"
	"regexp"
	"strings"
)

// SensitivePattern represents a pattern that might indicate a hardcoded credential.
type SensitivePattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:        "GitHub Token",
		Pattern:     regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}`),
		Description: "Potential GitHub token detected",
	},
	{
		Name:        "Fine-grained Token",
		Pattern:     regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{22,}`),
		Description: "Potential fine-grained GitHub token detected",
	},
	{
		Name:        "Token Assignment",
		Pattern:     regexp.MustCompile(`(?i)(github[_-]?token|token|bearer)\s*=\s*['"][a-zA-Z0-9_-]{15,}['"]`),
		Description: "Potential authentication token detected",
	},
	{
		Name:        "Proxy Credentials",
		Pattern:     regexp.MustCompile(`(?i)https?://[^/\s:'"]+:[^@\s'"]+@`),
		Description: "Proxy URL with embedded credentials detected",
	},
}

// SensitiveDataFinding represents a detected sensitive data instance.
type SensitiveDataFinding struct {
	PatternName string
	Description string
	Line        int
	Preview     string // Redacted preview of the match
}

// DetectSensitiveData scans pin file content for credentials that belong in
// the environment instead.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding

	for lineNum, line := range strings.Split(content, "\n") {
		for _, pattern := range sensitivePatterns {
			if pattern.Pattern.MatchString(line) {
				findings = append(findings, SensitiveDataFinding{
					PatternName: pattern.Name,
					Description: pattern.Description,
					Line:        lineNum + 1, // 1-based line numbers
					Preview:     redactSensitiveValue(line, pattern.Pattern),
				})
			}
		}
	}

	return findings
}

// redactSensitiveValue keeps the key of an assignment and hides the value.
// Lines without an assignment have each match replaced.
func redactSensitiveValue(line string, pattern *regexp.Regexp) string {
	eqIdx := strings.Index(line, "=")
	if eqIdx == -1 {
		return strings.TrimSpace(pattern.ReplaceAllString(line, "[REDACTED]"))
	}

	return strings.TrimSpace(line[:eqIdx]) + " = [REDACTED]"
}

// FormatSensitiveDataWarning formats findings into a user-facing warning.
func FormatSensitiveDataWarning(findings []SensitiveDataFinding) string {
	if len(findings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("WARNING: potential credentials in pin file\n\n")

	for i, finding := range findings {
		sb.WriteString(fmt.Sprintf("%d. %s (line %d)\n", i+1, finding.Description, finding.Line))
		sb.WriteString(fmt.Sprintf("   Preview: %s\n", finding.Preview))
	}

	sb.WriteString(fmt.Sprintf("\nSet the token through %s (or the variable named by %s) instead.\n",
		DefaultTokenEnvName, EnvTokenEnvName))

	return sb.String()
}
