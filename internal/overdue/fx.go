package overdue

import "go.uber.org/fx"

var Module = fx.Module("overdue.processor",
	fx.Provide(New),
)
