package lifecycle

import "go.uber.org/fx"

// Module 返回 Fx 模块
//
// 提供参与方级别的生命周期协调器，由门面驱动状态迁移。
func Module() fx.Option {
	return fx.Module("lifecycle",
		fx.Provide(NewCoordinator),
	)
}
