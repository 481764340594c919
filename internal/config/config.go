package config

import (
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	SSLCommerz SSLCommerzConfig `mapstructure:"sslcommerz"`
	URLs       URLConfig        `mapstructure:"urls"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// MongoConfig 文档库配置
type MongoConfig struct {
	URI      string `mapstructure:"uri"`      // 连接串
	Database string `mapstructure:"database"` // 数据库名
}

// SSLCommerzConfig 支付网关配置
type SSLCommerzConfig struct {
	StoreID       string `mapstructure:"store_id"`       // 商户ID
	StorePassword string `mapstructure:"store_password"` // 商户密码
	Sandbox       bool   `mapstructure:"sandbox"`        // 是否沙箱环境
	BaseURL       string `mapstructure:"base_url"`       // 网关地址，为空时按沙箱标志选择
}

// URLConfig 回调地址配置
type URLConfig struct {
	ServerBase   string `mapstructure:"server_base"`   // 本服务对外地址，用于拼接网关回调URL
	FrontendBase string `mapstructure:"frontend_base"` // 前端地址，用于支付结果跳转
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

type SchedulerConfig struct {
	Interval          int `mapstructure:"interval"`            // 秒
	PoolSize          int `mapstructure:"pool_size"`           // 对账协程池大小
	PendingTTLMinutes int `mapstructure:"pending_ttl_minutes"` // 待支付记录过期时间
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/algoarena")

	// 设置默认值
	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "AlgoArena")
	viper.SetDefault("sslcommerz.sandbox", true)
	viper.SetDefault("urls.server_base", "http://localhost:5000")
	viper.SetDefault("urls.frontend_base", "http://localhost:5173")
	viper.SetDefault("jwt.ttl_minutes", 60)
	viper.SetDefault("scheduler.interval", 60)
	viper.SetDefault("scheduler.pool_size", 4)
	viper.SetDefault("scheduler.pending_ttl_minutes", 30)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
