package product

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/repository"
	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/internal/product/usecase/query"
)

// ProvideProductRepository provides the traced GORM product repository
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewTracingProductRepository(repository.NewGormProductRepository(db))
}

// ProvideCommandHandlers provides all command handlers
func ProvideCommandHandlers(
	add *command.AddProductHandler,
	update *command.UpdateProductHandler,
	del *command.DeleteProductHandler,
	verify *command.VerifyNameAndTypeHandler,
	purchase *command.ApplyPurchaseHandler,
) *CommandHandlers {
	return &CommandHandlers{Add: add, Update: update, Delete: del, Verify: verify, Purchase: purchase}
}

// ProvideQueryHandlers provides all query handlers
func ProvideQueryHandlers(
	get *query.GetProductHandler,
	list *query.ListProductsHandler,
	search *query.SearchProductsHandler,
	stats *query.GetStatsHandler,
) *QueryHandlers {
	return &QueryHandlers{Get: get, List: list, Search: search, Stats: stats}
}

// NewServiceWithRepository builds the service by hand around any repository
// (manual DI, used by tests and the in-memory mode)
func NewServiceWithRepository(
	repo domain.ProductRepository,
	uploader domain.ImageUploader,
	publisher domain.EventPublisher,
) *Service {
	verify := command.NewVerifyNameAndTypeHandler(repo)
	update := command.NewUpdateProductHandler(repo, uploader, publisher, verify)

	commands := ProvideCommandHandlers(
		command.NewAddProductHandler(repo, uploader, publisher, verify),
		update,
		command.NewDeleteProductHandler(repo, publisher),
		verify,
		command.NewApplyPurchaseHandler(repo, update),
	)
	queries := ProvideQueryHandlers(
		query.NewGetProductHandler(repo),
		query.NewListProductsHandler(repo),
		query.NewSearchProductsHandler(repo),
		query.NewGetStatsHandler(repo),
	)
	return NewService(commands, queries)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewVerifyNameAndTypeHandler,
	command.NewAddProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeleteProductHandler,
	command.NewApplyPurchaseHandler,
	ProvideCommandHandlers,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetProductHandler,
	query.NewListProductsHandler,
	query.NewSearchProductsHandler,
	query.NewGetStatsHandler,
	ProvideQueryHandlers,
)

var ServiceSet = wire.NewSet(
	CommandHandlerSet,
	QueryHandlerSet,
	NewService,
)
