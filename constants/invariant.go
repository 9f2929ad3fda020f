package constants

import "time"

const (
	APP_NAME   = "Solara Project"
	PUBLIC_URL = "https://solaraproject.com"

	// uploaded media is exposed under this prefix, mirroring the directory layout
	UPLOADS_URL_PREFIX = "/uploads/"

	DEFAULT_PORT          = 3000
	DEFAULT_TOKEN_TTL     = 24 * time.Hour
	MIN_JWT_SECRET_LENGTH = 32

	FEATURED_PROPERTIES_LIMIT = 6
	MAX_MULTIPART_MEMORY      = 32 << 20
	SHUTDOWN_TIMEOUT          = 10 * time.Second
)
