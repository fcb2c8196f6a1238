package configs

type Secrets struct {
	SessionSecret string `yaml:"session_secret"`
	JwtSecret     string `yaml:"jwt_secret"`
}
