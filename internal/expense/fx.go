package expense

import (
	"github.com/lancekit/lancekit/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(service.New),
)
