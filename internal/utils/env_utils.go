package utils

import "os"

// ClientBaseURL returns the base URL of the web client, used when building
// links that are mailed to users.
func ClientBaseURL() string {
	if url := os.Getenv("CLIENT_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:5173"
}
