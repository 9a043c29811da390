package cmd

// Config carries the environment configuration of the service.
type Config struct {
	HTTPPort     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string
	FCMEndpoint  string
	FCMServerKey string
}
