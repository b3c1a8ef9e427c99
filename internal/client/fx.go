package client

import (
	"github.com/lancekit/lancekit/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(service.New),
)
