package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局配置实例，LoadConfig 成功后可用
var Cfg *Config

// LoadConfig 读取 configs/config.yaml 并填充 Cfg
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	Cfg = &cfg
	return nil
}
