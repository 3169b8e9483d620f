package connector

import (
	"context"
	"fmt"

	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

// Connector é a interface uniforme de busca de métricas de uma plataforma.
// Fetch retorna os registros brutos da janela; EntityStates informa, por
// entity_id, se a entidade está pausada em todos os escopos pai (sinal
// consumido pelo detector automático de pausa).
type Connector interface {
	Platform() domain.Platform
	Fetch(ctx context.Context, window domain.SyncWindow) ([]*domain.MetricRecord, error)
	EntityStates(ctx context.Context) (map[string]bool, error)
}

// Registry resolve o conector de cada plataforma habilitada
type Registry interface {
	Get(platform domain.Platform) (Connector, error)
	Platforms() []domain.Platform
}

type registry struct {
	connectors map[domain.Platform]Connector
}

func NewRegistry(connectors ...Connector) Registry {
	byPlatform := make(map[domain.Platform]Connector, len(connectors))
	for _, c := range connectors {
		byPlatform[c.Platform()] = c
	}
	return &registry{connectors: byPlatform}
}

func (r *registry) Get(platform domain.Platform) (Connector, error) {
	c, ok := r.connectors[platform]
	if !ok {
		return nil, fmt.Errorf("nenhum conector registrado para a plataforma %s", platform)
	}
	return c, nil
}

func (r *registry) Platforms() []domain.Platform {
	platforms := make([]domain.Platform, 0, len(r.connectors))
	for _, p := range domain.AllPlatforms {
		if _, ok := r.connectors[p]; ok {
			platforms = append(platforms, p)
		}
	}
	return platforms
}
