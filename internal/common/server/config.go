package server

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/myflix/internal/common/constants"
)

type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// writeTimeoutSlack leaves room to flush the timeout envelope after a
// handler deadline fires.
const writeTimeoutSlack = 5 * time.Second

// NewServerConfig sizes the connection deadlines around the per-request
// handler timeout so that a slow handler is answered by the timeout
// middleware instead of a dropped connection.
func NewServerConfig(port string, requestTimeout time.Duration) ServerConfig {
	cfg := ServerConfig{
		Addr:              ":" + port,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      constants.ServerWriteTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
	}
	if requestTimeout > 0 && requestTimeout+writeTimeoutSlack > cfg.WriteTimeout {
		cfg.WriteTimeout = requestTimeout + writeTimeoutSlack
	}
	return cfg
}

func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
