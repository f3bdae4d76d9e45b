package observability

import (
	"github.com/danmuck/wsjtxmon/internal/logging"
	"github.com/rs/zerolog"
)

// InitLogger configures the process logger once and returns one tagged
// with app.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	return logging.New(app)
}
