package events

import (
	"strings"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "nil",
			event: nil,
			want:  "",
		},
		{
			name:  "notification",
			event: NewNotification(LevelSuccess, "Éxito", "El formulario se envió correctamente."),
			want:  "Éxito: El formulario se envió correctamente.",
		},
		{
			name: "step changed",
			event: &StepChangedEvent{
				BaseEvent: NewControllerEvent(EventStepChanged),
				From:      0, To: 1, Label: "Experiencia", Via: "advance",
			},
			want: "paso 1 → 2 (Experiencia) [advance]",
		},
		{
			name: "validation failed lists fields sorted",
			event: &ValidationFailedEvent{
				BaseEvent: NewControllerEvent(EventValidationFailed),
				Step:      0, Attempt: 2, Limit: 3,
				Fields: map[string]string{"personalInfo.phone": "x", "personalInfo.email": "y"},
			},
			want: "validación fallida en paso 1, intento 2/3: personalInfo.email, personalInfo.phone",
		},
		{
			name: "lockout start",
			event: &LockoutStartEvent{
				BaseEvent: NewControllerEvent(EventLockoutStart),
				Attempts:  3, Duration: 30 * time.Second,
			},
			want: "bloqueado tras 3 intentos durante 30s",
		},
		{
			name:  "lockout end",
			event: &LockoutEndEvent{BaseEvent: NewControllerEvent(EventLockoutEnd)},
			want:  "bloqueo finalizado",
		},
		{
			name: "submission success",
			event: &SubmissionEndEvent{
				BaseEvent: NewControllerEvent(EventSubmissionEnd),
				Success:   true, ReceiptID: "abc", DurationMs: 12,
			},
			want: "envío completado (recibo abc, 12ms)",
		},
		{
			name: "submission failure",
			event: &SubmissionEndEvent{
				BaseEvent: NewControllerEvent(EventSubmissionEnd),
				Error:     "boom",
			},
			want: "envío fallido: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.event); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewNotification(t *testing.T) {
	before := time.Now()
	n := NewNotification(LevelWarning, "Formulario bloqueado", "Espera")

	if n.Type() != EventNotification {
		t.Errorf("Type() = %s, want %s", n.Type(), EventNotification)
	}
	if n.Source() != SourceController {
		t.Errorf("Source() = %s, want %s", n.Source(), SourceController)
	}
	if n.Timestamp().Before(before) {
		t.Error("timestamp should be set to now")
	}
	if n.Level != LevelWarning || !strings.Contains(n.Title, "bloqueado") {
		t.Errorf("unexpected notification: %+v", n.Notification)
	}
}
