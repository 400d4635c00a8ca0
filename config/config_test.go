package config_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/model-health-monitor/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = &config.Config{
			Server: config.ServerConfig{
				Address:     ":8080",
				Environment: config.EnvDev,
			},
			HealthCheck: config.HealthCheckConfig{
				Interval:     "60s",
				ProbeTimeout: "5s",
			},
			Logging: config.LoggingConfig{
				Level: config.LogLevelInfo,
			},
			Models: []config.ModelConfig{
				{ID: "gpt-4o", Name: "GPT-4o", Endpoint: "https://api.openai.com/v1/chat/completions", APIKeyEnv: "OPENAI_API_KEY"},
				{ID: "claude-3-opus", Name: "Claude 3 Opus", Endpoint: "https://api.anthropic.com/v1/messages", Preferred: true},
			},
		}
	})

	Describe("Validate", func() {
		It("should accept a complete configuration", func() {
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should reject an unknown environment", func() {
			cfg.Server.Environment = "production"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an address without a port", func() {
			cfg.Server.Address = "localhost"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unknown log level", func() {
			cfg.Logging.Level = "verbose"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unparseable interval", func() {
			cfg.HealthCheck.Interval = "every minute"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unparseable probe timeout", func() {
			cfg.HealthCheck.ProbeTimeout = "5"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should require at least one model", func() {
			cfg.Models = nil
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a model without an id", func() {
			cfg.Models[0].ID = ""
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a model without a name", func() {
			cfg.Models[0].Name = ""
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a non-http endpoint", func() {
			cfg.Models[0].Endpoint = "ftp://api.openai.com"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an endpoint without a host", func() {
			cfg.Models[0].Endpoint = "https://"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject duplicate model ids", func() {
			cfg.Models[1].ID = cfg.Models[0].ID
			Expect(cfg.Validate()).NotTo(Succeed())
		})
	})
})
