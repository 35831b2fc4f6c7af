package i18n

// T returns the message registered under key, falling back to
// defaultValue. No catalogs are loaded yet so the fallback always wins;
// keys follow the command path ("root.list.listShort").
func T(_ string, defaultValue string) string {
	return defaultValue
}
