package main

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/model-health-monitor/config"
)

func TestMain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Main Suite")
}

var _ = Describe("initializeRegistry", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = &config.Config{
			Models: []config.ModelConfig{
				{ID: "gpt-4o", Name: "GPT-4o", Endpoint: "https://api.openai.com/v1/chat/completions", APIKeyEnv: "OPENAI_API_KEY"},
				{ID: "claude-3-opus", Name: "Claude 3 Opus", Endpoint: "https://api.anthropic.com/v1/messages", Preferred: true},
			},
		}
	})

	It("should register models in catalog order", func() {
		reg, _ := initializeRegistry(cfg)

		models := reg.Models()
		Expect(models).To(HaveLen(2))
		Expect(models[0].ID()).To(Equal("gpt-4o"))
		Expect(models[1].ID()).To(Equal("claude-3-opus"))
	})

	It("should build a probe target per model", func() {
		_, targets := initializeRegistry(cfg)

		Expect(targets).To(HaveLen(2))
		Expect(targets["gpt-4o"].Endpoint).To(Equal("https://api.openai.com/v1/chat/completions"))
	})

	It("should resolve API keys from the environment", func() {
		GinkgoT().Setenv("OPENAI_API_KEY", "sk-test")

		_, targets := initializeRegistry(cfg)
		Expect(targets["gpt-4o"].APIKey).To(Equal("sk-test"))
	})

	It("should carry the preferred flag through", func() {
		reg, _ := initializeRegistry(cfg)

		m, ok := reg.Get("claude-3-opus")
		Expect(ok).To(BeTrue())
		Expect(m.Preferred()).To(BeTrue())
	})
})
