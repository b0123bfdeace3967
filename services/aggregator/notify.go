package aggregator

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// MailReport sends a finished run's CSV to the given address. Runs are
// long; mailing the archive beats watching a terminal.
func MailReport(ctx context.Context, cfg SmtpConfig, to string, report RunReport) error {
	ctx, span := tracer.Start(ctx, "MailReport")
	defer span.End()

	var csvBuf bytes.Buffer
	err := WriteCSV(&csvBuf, report.Records)
	if err != nil {
		return err
	}

	var failed []string
	for _, res := range report.Sources {
		if res.Err != nil {
			failed = append(failed, res.Source)
		}
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Lobbyharvest <%s>", cfg.EmailAddress)
	mail.To = []string{to}
	mail.Subject = fmt.Sprintf("Lobbyharvest: %d client records for %s", len(report.Records), report.FirmName)

	body := fmt.Sprintf(`Aggregation run for %q finished with %d unique client records.

Sources queried: %d
Sources failed: %d
Records dropped by validation: %d`,
		report.FirmName,
		len(report.Records),
		len(report.Sources),
		len(failed),
		len(report.Rejected),
	)
	if len(failed) > 0 {
		body += fmt.Sprintf("\n\nFailed sources: %s", strings.Join(failed, ", "))
	}
	mail.Text = []byte(body)

	filename := OutputFilename(report.FirmName, "csv", time.Now())
	_, err = mail.Attach(&csvBuf, filename, "text/csv")
	if err != nil {
		return err
	}

	err = mail.Send(
		fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
		smtp.PlainAuth("", cfg.EmailAddress, cfg.Password, cfg.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(fmt.Sprintf("%s:%d", cfg.Server, cfg.Port), nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send report email")
		return err
	}

	return nil
}
