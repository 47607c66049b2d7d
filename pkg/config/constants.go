package config

// EnvPrefix is the envconfig prefix shared by every ShieldWrap binary.
const EnvPrefix = "shieldwrap"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "SHIELDWRAP_DB_DSN"
	EnvDBHost = "SHIELDWRAP_DB_HOST"
	EnvDBUser = "SHIELDWRAP_DB_USER"
	EnvDBName = "SHIELDWRAP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
