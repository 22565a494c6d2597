package logger

// RedactChatID masks a messaging-platform user identifier for safe logging.
// "283745991" → "28*****91". Identifiers of 4 characters or fewer are fully
// masked.
func RedactChatID(id string) string {
	if len(id) <= 4 {
		return "****"
	}
	masked := make([]byte, len(id)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return id[:2] + string(masked) + id[len(id)-2:]
}
