package timeentry

import (
	"github.com/lancekit/lancekit/internal/timeentry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("timeentry.service",
	fx.Provide(service.New),
)
