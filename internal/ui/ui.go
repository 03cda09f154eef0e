// Package ui — мелкие HTML-блоки для шаблонов: спиннер, оверлей загрузки,
// панель "Try Again", индикатор соединения.
package ui

import (
	"fmt"
	"html"
	"html/template"
)

var spinnerSizes = map[string]string{
	"small":  "20px",
	"medium": "40px",
	"large":  "60px",
}

func SpinnerSize(size string) string {
	if s, ok := spinnerSizes[size]; ok {
		return s
	}
	return spinnerSizes["medium"]
}

func Spinner(size string) template.HTML {
	px := SpinnerSize(size)
	return template.HTML(fmt.Sprintf(
		`<div class="loading-spinner"><div class="spinner" style="width: %s; height: %s;"></div></div>`,
		px, px))
}

func Overlay(message string) template.HTML {
	if message == "" {
		message = "Loading..."
	}
	return template.HTML(fmt.Sprintf(
		`<div class="loading-overlay"><div class="spinner" style="width: 50px; height: 50px;"></div><p>%s</p></div>`,
		html.EscapeString(message)))
}

// RetryPanel — сообщение об ошибке и кнопка повтора, отправляющая форму на action.
func RetryPanel(message, action string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<div class="retry-ui"><div><i class="fas fa-exclamation-triangle"></i><p>%s</p></div>`+
			`<form method="get" action="%s"><button class="retry-btn" type="submit"><i class="fas fa-redo"></i> Try Again</button></form></div>`,
		html.EscapeString(message), html.EscapeString(action)))
}

func ConnectionIndicator(online bool) template.HTML {
	if online {
		return template.HTML(`<div id="connection-indicator" class="online" data-autohide="3000"><span class="dot"></span> Online</div>`)
	}
	return template.HTML(`<div id="connection-indicator" class="offline"><span class="dot pulse"></span> Offline</div>`)
}
