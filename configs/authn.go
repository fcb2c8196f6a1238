package configs

type AuthnConfig struct {
	SessionExpireMin     int `yaml:"session_expire_min"`
	AccessJwtExpireMin   int `yaml:"access_jwt_expire_min"`
	TwoFactorExpireHours int `yaml:"two_factor_expire_hours"`
	MaxFailedAttempts    int `yaml:"max_failed_attempts"`
	AttemptWindowMin     int `yaml:"attempt_window_min"`
}
