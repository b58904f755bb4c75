package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/MKhiriev/orchestra/models"
)

func printField(w io.Writer, label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(w, "%-16s %s\n", label+":", value)
}

// formatPrice renders cents as "1,900.00 USD".
func formatPrice(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%s.%02d %s", sign, humanize.Comma(cents/100), cents%100, strings.ToUpper(currency))
}

func printJob(w io.Writer, job models.Job) {
	line := fmt.Sprintf("%-10s %3.0f%%", job.Status, job.Progress*100)
	if job.Step != "" {
		line += "  " + job.Step
	}
	if job.Message != "" {
		line += ": " + job.Message
	}
	fmt.Fprintln(w, line)
}

func printJobResult(w io.Writer, job models.Job) {
	printField(w, "Job", job.ID)
	printField(w, "Status", string(job.Status))
	switch job.Status {
	case models.JobCompleted:
		printField(w, "Result", job.ResultURL)
	case models.JobFailed:
		printField(w, "Error", job.Error)
	default:
		printField(w, "Progress", fmt.Sprintf("%.0f%%", job.Progress*100))
		printField(w, "Step", job.Step)
	}
}
