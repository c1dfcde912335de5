package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultWatchlist is the candidate universe used when WATCHLIST is not set.
const DefaultWatchlist = "SNDL,HEXO,ACB,TLRY,CGC,APHA,CRON,OGI,WEED,HMMJ," +
	"MJ,YOLO,POTX,THCX,MJXL,HERB,CANE,GRWG,IIPR,SMG," +
	"FUV,WKHS,IDEX,SOLO,RIDE,NKLA,HYLN,XL,SPI,SHIP," +
	"ZOM,CTRM,MARK,CIDM,NAKD,TOPS,GNUS,JAGX,TNXP"

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	WATCHLIST=SNDL,ACB,TLRY
//	PRICE_CEILING=5.0
//	OPENAI_API_KEY=sk-...
//	OPENAI_MODEL=gpt-4.1-mini
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Screener  ScreenerConfig  // Penny stock gainer screening
	Yahoo     YahooConfig     // Market data provider
	OpenAI    OpenAIConfig    // Text completion provider
	Recommend RecommendConfig // AI recommendation generation
	RateLimit RateLimitConfig // Per-client request throttling
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        string   // The TCP port the HTTP server will listen on (e.g., "8080")
	GinMode     string   // debug, release or test
	CORSOrigins []string // Allowed origins; "*" allows any
}

// ScreenerConfig defines the watchlist and the filter applied to it.
//
// Fields:
//   - Watchlist: ordered, de-duplicated, upper-case ticker symbols.
//   - PriceCeiling: maximum current price for a stock to count as a penny stock.
//   - DefaultLimit: result size used when a request does not provide one.
//   - Parallelism: maximum number of symbols fetched concurrently.
type ScreenerConfig struct {
	Watchlist    []string
	PriceCeiling float64
	DefaultLimit int
	Parallelism  int
}

// YahooConfig defines how the Yahoo Finance chart API is reached.
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// OpenAIConfig defines the completion provider credentials and default model.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// RecommendConfig bounds the recommendation generation call.
type RecommendConfig struct {
	MaxCount    int
	Temperature float32
	MaxTokens   int
}

// RateLimitConfig configures the per-IP token bucket.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates the app.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ORIGINS", "*")

	viper.SetDefault("WATCHLIST", DefaultWatchlist)
	viper.SetDefault("PRICE_CEILING", 5.0)
	viper.SetDefault("GAINERS_LIMIT", 20)
	viper.SetDefault("SCREEN_PARALLELISM", 8)

	viper.SetDefault("YAHOO_BASE_URL", "https://query1.finance.yahoo.com")
	viper.SetDefault("YAHOO_TIMEOUT", "10s")

	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4.1-mini")

	viper.SetDefault("RECOMMEND_MAX_COUNT", 20)
	viper.SetDefault("RECOMMEND_TEMPERATURE", 0.7)
	viper.SetDefault("RECOMMEND_MAX_TOKENS", 2000)

	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 15)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			GinMode:     viper.GetString("GIN_MODE"),
			CORSOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		},
		Screener: ScreenerConfig{
			Watchlist:    ParseWatchlist(viper.GetString("WATCHLIST")),
			PriceCeiling: viper.GetFloat64("PRICE_CEILING"),
			DefaultLimit: viper.GetInt("GAINERS_LIMIT"),
			Parallelism:  viper.GetInt("SCREEN_PARALLELISM"),
		},
		Yahoo: YahooConfig{
			BaseURL: viper.GetString("YAHOO_BASE_URL"),
			Timeout: viper.GetDuration("YAHOO_TIMEOUT"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  viper.GetString("OPENAI_API_KEY"),
			BaseURL: viper.GetString("OPENAI_BASE_URL"),
			Model:   viper.GetString("OPENAI_MODEL"),
		},
		Recommend: RecommendConfig{
			MaxCount:    viper.GetInt("RECOMMEND_MAX_COUNT"),
			Temperature: float32(viper.GetFloat64("RECOMMEND_TEMPERATURE")),
			MaxTokens:   viper.GetInt("RECOMMEND_MAX_TOKENS"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	validateConfig()
}

// ParseWatchlist turns a comma separated symbol list into an ordered slice.
// Symbols are trimmed and upper-cased; empty entries and repeats are dropped,
// keeping the first occurrence's position.
func ParseWatchlist(raw string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing or out of range.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if len(AppConfig.Screener.Watchlist) == 0 {
		missing = append(missing, "WATCHLIST")
	}
	if AppConfig.Screener.PriceCeiling <= 0 {
		missing = append(missing, "PRICE_CEILING")
	}
	if AppConfig.Screener.DefaultLimit <= 0 {
		missing = append(missing, "GAINERS_LIMIT")
	}
	if AppConfig.Recommend.MaxCount <= 0 {
		missing = append(missing, "RECOMMEND_MAX_COUNT")
	}
	if AppConfig.Yahoo.BaseURL == "" {
		missing = append(missing, "YAHOO_BASE_URL")
	}

	if len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}
