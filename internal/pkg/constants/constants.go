package constants

// Viper config keys.
const (
	ViperListenAddr            = "listen_addr"
	ViperDatabaseURL           = "database_url"
	ViperSecretKey             = "secret_key"
	ViperSQLTimeout            = "sql_timeout"
	ViperCacheClearHorizonDays = "cache_clear_horizon_days"
	ViperAllowedOrigins        = "allowed_origins"
)

// Echo context keys.
const (
	CtxKeyAuthContext = "auth_context"
	CtxKeyRequestID   = "request_id"
)

// CookieKeySecretToken carries the signed context token minted by the
// surrounding application.
const CookieKeySecretToken = "secret_token"
