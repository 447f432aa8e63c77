package core

// Logger is any service that can log and report messages.
// expected args fmt: error | map[string]interface{} | user.User
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// AnalyticsService is any sink that receives product events (calculations, sign ups...).
type AnalyticsService interface {
	Track(event string, params map[string]interface{})
}
