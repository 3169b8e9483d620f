package connector

import (
	"errors"
	"fmt"

	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

// Erros tipados da camada de conectores. O orquestrador distingue os três
// para decidir a política de retry, mas todos abortam a sincronização antes
// de qualquer mutação no banco.

// AuthError indica credencial rejeitada ou token expirado na plataforma
type AuthError struct {
	Platform domain.Platform
	Detail   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("falha de autenticação na plataforma %s: %s", e.Platform, e.Detail)
}

// RateLimitedError indica que a plataforma recusou a chamada por limite de requisições
type RateLimitedError struct {
	Platform   domain.Platform
	RetryAfter string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("limite de requisições excedido na plataforma %s (retry após %s)", e.Platform, e.RetryAfter)
	}
	return fmt.Sprintf("limite de requisições excedido na plataforma %s", e.Platform)
}

// TransientNetworkError indica falha de rede ou timeout, passível de retry
type TransientNetworkError struct {
	Platform domain.Platform
	Cause    error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("falha de rede ao consultar a plataforma %s: %v", e.Platform, e.Cause)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Cause
}

// IsRetryable informa se o erro de fetch pode ser tentado novamente sem intervenção
func IsRetryable(err error) bool {
	var rateLimited *RateLimitedError
	var transient *TransientNetworkError
	return errors.As(err, &rateLimited) || errors.As(err, &transient)
}
