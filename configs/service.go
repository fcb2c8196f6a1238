package configs

type ServiceConfig struct {
	HttpPort  string `yaml:"http_port"`
	BaseURL   string `yaml:"base_url"`
	DemoMode  bool   `yaml:"demo_mode"`
	UploadDir string `yaml:"upload_dir"`
}
