package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（3000）

	JWTSecret     string // JWT署名シークレット
	WebhookSecret string // 決済通知のHMACシークレット（空なら検証なし）

	GoEnv string // dev/prod
}

// Loadは環境変数から読む。DB接続情報はinfra/dbが直接envを見る
func Load() (Config, error) {
	cfg := Config{
		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		GoEnv:         os.Getenv("GO_ENV"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.GoEnv == "" {
		cfg.GoEnv = "dev"
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
