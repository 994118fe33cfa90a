package components

import (
	"raffle-engine/internal/infra/db"
	"raffle-engine/internal/infra/readstore"
	"raffle-engine/internal/infra/uow"
	"raffle-engine/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork
		uow.NewPostgresUoW,
		// Read side
		fx.Annotate(
			readstore.NewRaffleReadStore,
			fx.As(new(queries.RaffleQueries)),
		),
		fx.Annotate(
			readstore.NewDrawReadStore,
			fx.As(new(queries.DrawQueries)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
