package events

import (
	"fmt"
	"sort"
	"strings"
)

// Format converts an event to a single human-readable line.
// Returns empty string for nil or unknown event types.
func Format(event Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *NotificationEvent:
		return fmt.Sprintf("%s: %s", e.Title, e.Description)
	case *StepChangedEvent:
		return fmt.Sprintf("paso %d → %d (%s) [%s]", e.From+1, e.To+1, e.Label, e.Via)
	case *ValidationFailedEvent:
		return fmt.Sprintf("validación fallida en paso %d, intento %d/%d: %s",
			e.Step+1, e.Attempt, e.Limit, strings.Join(sortedKeys(e.Fields), ", "))
	case *LockoutStartEvent:
		return fmt.Sprintf("bloqueado tras %d intentos durante %s", e.Attempts, e.Duration)
	case *LockoutEndEvent:
		return "bloqueo finalizado"
	case *SubmissionStartEvent:
		return "envío iniciado"
	case *SubmissionEndEvent:
		if e.Success {
			return fmt.Sprintf("envío completado (recibo %s, %dms)", e.ReceiptID, e.DurationMs)
		}
		return fmt.Sprintf("envío fallido: %s", e.Error)
	case *StateRestoredEvent:
		return fmt.Sprintf("datos restaurados desde %q", e.Key)
	case *StateClearedEvent:
		return fmt.Sprintf("datos guardados eliminados de %q", e.Key)
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
