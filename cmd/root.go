package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/logger"
)

const (
	app = "jd-matcher"

	envPrefix = "JD_MATCHER"

	defaultDevProxyURL   = "http://localhost:5173/api/analyze"
	productionWebhookURL = "https://n8n.srv1048087.hstgr.cloud/webhook/recruit-ai"
)

// Set to "dev" with -ldflags "-X github.com/spigell/jd-matcher/cmd.buildMode=dev".
var buildMode = ""

type Config struct {
	Debug        bool           `mapstructure:"debug"`
	JSON         bool           `mapstructure:"json"`
	Dev          bool           `mapstructure:"dev"`
	Provider     string         `mapstructure:"provider"`
	MaxLogLength int            `mapstructure:"max-log-length"`
	Webhook      *WebhookConfig `mapstructure:"webhook"`
	Gemini       *GeminiConfig  `mapstructure:"gemini"`
	Serve        *ServeConfig   `mapstructure:"serve"`
	Proxy        *ProxyConfig   `mapstructure:"proxy"`
}

type WebhookConfig struct {
	URL           string        `mapstructure:"url"`
	DevProxyURL   string        `mapstructure:"dev-proxy-url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	AuthTokenFile string        `mapstructure:"auth-token-file"`
	UserAgent     string        `mapstructure:"user-agent"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type ServeConfig struct {
	Listen    string  `mapstructure:"listen"`
	RateLimit float64 `mapstructure:"rate-limit"`
	Burst     int     `mapstructure:"burst"`
}

type ProxyConfig struct {
	Listen string `mapstructure:"listen"`
	Target string `mapstructure:"target"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "jd-matcher scores a resume against a job description",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jd-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("provider", "webhook", "analysis backend: webhook or gemini")
	rootCmd.PersistentFlags().String("webhook-url", "", "analysis webhook endpoint (overrides the built-in endpoints)")
	rootCmd.PersistentFlags().Bool("dev", false, "send analyze requests to the local dev proxy")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("webhook.url", rootCmd.PersistentFlags().Lookup("webhook-url"))
	viper.BindPFlag("dev", rootCmd.PersistentFlags().Lookup("dev"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "webhook")
	v.SetDefault("max-log-length", 200)
	v.SetDefault("webhook.dev-proxy-url", defaultDevProxyURL)
	v.SetDefault("webhook.timeout", 120*time.Second)
	v.SetDefault("gemini.model", "gemini-2.5-pro")
	v.SetDefault("serve.listen", ":8080")
	v.SetDefault("serve.rate-limit", 1.0)
	v.SetDefault("serve.burst", 3)
	v.SetDefault("proxy.listen", ":5173")
	v.SetDefault("proxy.target", productionWebhookURL)

	// Unmarshal only sees env values for keys viper already knows about.
	for _, key := range []string{"webhook.url", "webhook.auth-token-file", "webhook.user-agent", "gemini.api-key-file"} {
		v.SetDefault(key, "")
	}
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional; every key has a default or a flag.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Webhook == nil {
		config.Webhook = &WebhookConfig{}
	}
	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}
	if config.Serve == nil {
		config.Serve = &ServeConfig{}
	}
	if config.Proxy == nil {
		config.Proxy = &ProxyConfig{}
	}

	return config, nil
}

// setup builds the logger and the decoded configuration shared by all commands.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return l, config
}

// resolveEndpoint picks the webhook endpoint once per process: an explicit URL,
// then the dev proxy in dev mode, then the production webhook.
func resolveEndpoint(cfg *WebhookConfig, dev bool, mode string) string {
	if cfg != nil {
		if url := strings.TrimSpace(cfg.URL); url != "" {
			return url
		}
	}

	if dev || mode == "dev" {
		if cfg != nil && strings.TrimSpace(cfg.DevProxyURL) != "" {
			return strings.TrimSpace(cfg.DevProxyURL)
		}
		return defaultDevProxyURL
	}

	return productionWebhookURL
}
