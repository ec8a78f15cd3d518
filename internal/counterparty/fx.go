package counterparty

import (
	"github.com/smallbiznis/ledgerline/internal/counterparty/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("counterparty",
	fx.Provide(repository.NewRepository),
)
