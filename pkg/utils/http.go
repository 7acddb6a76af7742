// Package utils provides common utility functions.
package utils

// DefaultUserAgent is sent on every outbound request; the decision index
// rejects clients without a browser-looking user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// BuildHeaders creates default HTTP headers merged with custom ones.
func BuildHeaders(customHeaders map[string]string) map[string]string {
	headers := map[string]string{
		"User-Agent": DefaultUserAgent,
		"Accept":     "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	}

	for key, value := range customHeaders {
		headers[key] = value
	}

	return headers
}
