package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "BUILDBAZAAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BUILDBAZAAR_DB_DSN"
	EnvDBHost = "BUILDBAZAAR_DB_HOST"
	EnvDBUser = "BUILDBAZAAR_DB_USER"
	EnvDBName = "BUILDBAZAAR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
