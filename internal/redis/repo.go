package redis

import "go.uber.org/zap"

// Repository bundles the per-entity repositories behind one client.
type Repository struct {
	log    *zap.Logger
	client *Client

	Items      *ItemRepository
	Containers *ContainerRepository
	Placements *PlacementRepository
	Waste      *WasteRepository
	Logs       *LogRepository
}

// NewRepository wires every repository onto a shared Redis client.
func NewRepository(log *zap.Logger, addr string, db int) *Repository {
	log = log.Named("repo")
	client := NewClient(addr, db, log)

	return &Repository{
		log:        log,
		client:     client,
		Items:      newItemRepository(log, client),
		Containers: newContainerRepository(log, client),
		Placements: newPlacementRepository(log, client),
		Waste:      newWasteRepository(log, client),
		Logs:       newLogRepository(log, client),
	}
}

// Close releases the shared client.
func (r *Repository) Close() error {
	return r.client.Close()
}
