package notify

import (
	"encoding/json"
	"time"
)

// Session — то, что нужно от gin-contrib/sessions для флешей.
type Session interface {
	AddFlash(value interface{}, vars ...string)
	Flashes(vars ...string) []interface{}
	Save() error
}

const flashKey = "toasts"

type flash struct {
	Message  string   `json:"m"`
	Severity Severity `json:"s"`
	Duration int64    `json:"d"`
}

// Flash кладёт тост в сессию, он покажется на следующей отрисованной странице.
func Flash(sess Session, message string, severity Severity) {
	b, _ := json.Marshal(flash{Message: message, Severity: severity, Duration: DefaultDuration.Milliseconds()})
	sess.AddFlash(string(b), flashKey)
	_ = sess.Save()
}

// TakeFlashes забирает флеши из сессии и превращает их в тосты.
func TakeFlashes(sess Session, now time.Time) []Toast {
	raw := sess.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save()

	toasts := make([]Toast, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			continue
		}
		var f flash
		if err := json.Unmarshal([]byte(s), &f); err != nil {
			continue
		}
		toasts = append(toasts, newToast(f.Message, f.Severity, time.Duration(f.Duration)*time.Millisecond, now))
	}
	return toasts
}
