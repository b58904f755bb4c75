// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/orchestra/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	var b strings.Builder

	b.WriteString(kv("Приложение", "orchestra"))
	b.WriteString("\n")
	b.WriteString(kv("Версия", info.BuildVersion()))
	b.WriteString("\n")
	b.WriteString(kv("Дата", info.BuildDate()))
	b.WriteString("\n")
	b.WriteString(kv("Коммит", info.BuildCommit()))

	return renderPage("О ПРОГРАММЕ", b.String(), "esc: назад")
}
