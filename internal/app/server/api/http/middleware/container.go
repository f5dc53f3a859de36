package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Container копит мидлвари для очередной группы операций.
// Base мидлвари (request id, логирование) добавляются в начало каждой группы.
type Container struct {
	base    huma.Middlewares
	pending huma.Middlewares
}

func NewContainer(base ...func(huma.Context, func(huma.Context))) *Container {
	return &Container{base: base}
}

// Add appends middlewares to the group being built.
func (mc *Container) Add(mws ...func(ctx huma.Context, next func(huma.Context))) *Container {
	mc.pending = append(mc.pending, mws...)
	return mc
}

// GetAllAndClear returns base + pending middlewares and starts a new group.
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := make(huma.Middlewares, 0, len(mc.base)+len(mc.pending))
	result = append(result, mc.base...)
	result = append(result, mc.pending...)
	mc.pending = nil
	return result
}
