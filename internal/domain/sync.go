package domain

import (
	"fmt"
	"time"
)

const (
	// RollingWindowDays é o tamanho da janela rolante de sincronização (14 dias inclusivos)
	RollingWindowDays = 14

	// MaxWindowAgeDays é o limite de idade de uma janela explícita antes de exigir force
	MaxWindowAgeDays = 30
)

// SyncWindow delimita o período de uma sincronização. Datas inclusivas,
// sempre com End <= ontem em relação ao relógio do processo.
type SyncWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// RollingWindow calcula a janela rolante padrão: end = hoje - 1, start = end - 13
func RollingWindow(now time.Time) SyncWindow {
	end := now.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(RollingWindowDays - 1))
	return SyncWindow{Start: truncateDay(start), End: truncateDay(end)}
}

// NewWindow monta uma janela explícita informada pelo operador
func NewWindow(start, end time.Time) (SyncWindow, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return SyncWindow{}, fmt.Errorf(
			"janela inválida: start %s posterior a end %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly),
		)
	}
	return SyncWindow{Start: start, End: end}, nil
}

// Key identifica a janela para fins de lock por (plataforma, janela)
func (w SyncWindow) Key(platform Platform) string {
	return fmt.Sprintf("%s|%s|%s", platform, w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
}

// Days retorna o número de dias inclusivos da janela
func (w SyncWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// OlderThan informa se a janela termina antes do limite de sanidade
func (w SyncWindow) OlderThan(now time.Time, days int) bool {
	cutoff := truncateDay(now).AddDate(0, 0, -days)
	return w.End.Before(cutoff)
}

func (w SyncWindow) String() string {
	return fmt.Sprintf("%s..%s", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SyncResult é a trilha de auditoria de uma execução de sincronização.
// Nunca é descartada: toda execução, com sucesso ou falha, gera um registro.
type SyncResult struct {
	ID          string    `json:"id"`
	Platform    Platform  `json:"platform"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Deleted     int64     `json:"deleted"`
	Inserted    int64     `json:"inserted"`
	DurationMS  int64     `json:"duration_ms"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	TriggeredBy string    `json:"triggered_by"`
	CreatedAt   time.Time `json:"created_at"`
}
