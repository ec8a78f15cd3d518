package document

import (
	"github.com/smallbiznis/ledgerline/internal/document/domain"
	"github.com/smallbiznis/ledgerline/internal/document/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("document",
	fx.Provide(service.NewService),
	fx.Invoke(func(svc domain.Service, log *zap.Logger) {
		_ = svc
		log.Info("document engine ready")
	}),
)
