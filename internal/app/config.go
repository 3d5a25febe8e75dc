package app

import (
	"strings"
	"time"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/utils"
)

type Config struct {
	ServiceName     string
	Environment     string
	Version         string
	Addr            string
	AllowedOrigins  []string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RedisAddr       string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	addr := utils.GetEnv("ADDR", ":8080", log)
	originsRaw := utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log)

	var origins []string
	for _, o := range strings.Split(originsRaw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		ServiceName:     "sessionscribe",
		Environment:     utils.GetEnv("ENVIRONMENT", "development", log),
		Version:         utils.GetEnv("SERVICE_VERSION", "dev", log),
		Addr:            addr,
		AllowedOrigins:  origins,
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		RedisAddr:       utils.GetEnv("REDIS_ADDR", "", log),
	}
}
