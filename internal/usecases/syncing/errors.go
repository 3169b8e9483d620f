package syncing

import (
	"fmt"

	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

// SyncInProgressError indica que já existe uma sincronização em andamento
// para a mesma (plataforma, janela). A chamada é rejeitada imediatamente,
// nunca enfileirada.
type SyncInProgressError struct {
	Platform domain.Platform
	Window   domain.SyncWindow
}

func (e *SyncInProgressError) Error() string {
	return fmt.Sprintf("sincronização já em andamento para %s %s", e.Platform, e.Window)
}

// WindowTooOldError indica que a janela explícita termina antes do limite de
// sanidade e a chamada não veio com force. Protege contra limpezas históricas
// não intencionais.
type WindowTooOldError struct {
	Window  domain.SyncWindow
	MaxDays int
}

func (e *WindowTooOldError) Error() string {
	return fmt.Sprintf(
		"janela %s é mais antiga que %d dias; use force para confirmar o re-sync histórico",
		e.Window, e.MaxDays,
	)
}

// FetchError encapsula a falha de busca na plataforma. Quando ocorre,
// nenhuma mutação foi feita no banco e a operação pode ser repetida.
type FetchError struct {
	Platform domain.Platform
	Window   domain.SyncWindow
	Cause    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("falha ao buscar dados de %s para a janela %s: %v", e.Platform, e.Window, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
