package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"gobot/internal/domain/board"
)

type Config struct {
	ServiceUrl   string        `mapstructure:"SERVICE_URL"`
	BotUsername  string        `mapstructure:"BOT_USERNAME"`
	BotPassword  string        `mapstructure:"BOT_PASSWORD"`
	PollInterval time.Duration `mapstructure:"POLL_INTERVAL"`
	HandledTTL   time.Duration `mapstructure:"HANDLED_TTL"`

	EvaluatorAddr    string        `mapstructure:"EVALUATOR_ADDR"`
	EvaluatorTimeout time.Duration `mapstructure:"EVALUATOR_TIMEOUT"`

	AdvisorPort string `mapstructure:"ADVISOR_PORT"`
	IsLocalCors bool   `mapstructure:"IS_LOCAL_CORS"`

	RedisUrl      string `mapstructure:"REDIS_URL"`
	MongoUri      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RandomSeed       int64   `mapstructure:"RANDOM_SEED"`
	BoardSize        int     `mapstructure:"BOARD_SIZE"`
	OpeningThreshold int     `mapstructure:"OPENING_THRESHOLD"`
	WindowSize       int     `mapstructure:"WINDOW_SIZE"`
	WindowRatio      float64 `mapstructure:"WINDOW_RATIO"`
	AdviceLimit      int     `mapstructure:"ADVICE_LIMIT"`
	AdviceRatio      float64 `mapstructure:"ADVICE_RATIO"`

	EvaluatorListen  string `mapstructure:"EVALUATOR_LISTEN"`
	EvaluatorBackend string `mapstructure:"EVALUATOR_BACKEND"`
	ModelUrl         string `mapstructure:"MODEL_URL"`
	ModelPath        string `mapstructure:"MODEL_PATH"`
	OnnxLibraryPath  string `mapstructure:"ONNX_LIBRARY_PATH"`
	OnnxInput        string `mapstructure:"ONNX_INPUT"`
	OnnxOutput       string `mapstructure:"ONNX_OUTPUT"`
	OnnxMaxBatch     int    `mapstructure:"ONNX_MAX_BATCH"`
}

var defaults = map[string]any{
	"SERVICE_URL":       "http://localhost:3000",
	"BOT_USERNAME":      "",
	"BOT_PASSWORD":      "",
	"POLL_INTERVAL":     "1s",
	"HANDLED_TTL":       "24h",
	"EVALUATOR_ADDR":    "localhost:8082",
	"EVALUATOR_TIMEOUT": "10s",
	"ADVISOR_PORT":      "8080",
	"IS_LOCAL_CORS":     false,
	"REDIS_URL":         "",
	"MONGO_URI":         "",
	"MONGO_DATABASE":    "gobot",
	"RANDOM_SEED":       0,
	"BOARD_SIZE":        19,
	"OPENING_THRESHOLD": 10,
	"WINDOW_SIZE":       5,
	"WINDOW_RATIO":      2.0,
	"ADVICE_LIMIT":      11,
	"ADVICE_RATIO":      2.0,
	"EVALUATOR_LISTEN":  ":8082",
	"EVALUATOR_BACKEND": "http",
	"MODEL_URL":         "http://localhost:8501/v1/models/go:predict",
	"MODEL_PATH":        "",
	"ONNX_LIBRARY_PATH": "",
	"ONNX_INPUT":        "input",
	"ONNX_OUTPUT":       "output",
	"ONNX_MAX_BATCH":    16,
}

// Setup reads cfgPath as an env file. Environment variables win over the
// file, and a missing file leaves the defaults in place.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := board.CheckSize(cfg.BoardSize); err != nil {
		return nil, fmt.Errorf("BOARD_SIZE: %w", err)
	}
	return &cfg, nil
}
