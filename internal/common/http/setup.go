package http

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/myflix/internal/common/constants"
	"github.com/AlibekovAA/myflix/internal/common/httpmetrics"
	"github.com/AlibekovAA/myflix/internal/common/logger"
)

// BuildBaseHandler wraps the router in the shared middleware chain. The
// request timeout bounds every store call made while serving a request.
func BuildBaseHandler(log *logger.Logger, requestTimeout time.Duration, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	timeout := WithTimeout(requestTimeout)

	return SecurityHeadersMiddleware(TraceIDMiddleware(recovery(collector.Wrap(maxRequestSize(timeout(handler))))))
}
