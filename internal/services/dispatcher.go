package services

import (
	"context"
	"strconv"
	"sync"

	"github.com/ArowuTest/leadflow-backend/internal/metrics"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/pkg/mailer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Send kinds, used as the metrics label
const (
	sendCampaign = "campaign"
	sendBulk     = "bulk"
	sendTest     = "test"
)

// MailSettings is the default sender identity
type MailSettings struct {
	FromEmail   string
	FromName    string
	Concurrency int
}

// recipient is one addressee of a fan-out
type recipient struct {
	ID    string
	Email string
	Vars  map[string]interface{}
}

// Dispatcher fans a message out to many recipients with bounded concurrency.
// One failing recipient never stops the others.
type Dispatcher struct {
	sender   mailer.Sender
	renderer *mailer.Renderer
	settings MailSettings
	log      *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(sender mailer.Sender, settings MailSettings, log *zap.Logger) *Dispatcher {
	if settings.Concurrency < 1 {
		settings.Concurrency = 1
	}
	return &Dispatcher{sender: sender, renderer: mailer.NewRenderer(), settings: settings, log: log}
}

// send renders template per recipient and waits for every outcome
func (d *Dispatcher) send(ctx context.Context, kind string, template mailer.Message, recipients []recipient) *models.DispatchReport {
	if template.FromEmail == "" {
		template.FromEmail = d.settings.FromEmail
	}
	if template.FromName == "" {
		template.FromName = d.settings.FromName
	}

	report := &models.DispatchReport{Attempted: len(recipients), Result: models.NewBulkResult()}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(d.settings.Concurrency)
	for _, rcpt := range recipients {
		rcpt := rcpt
		g.Go(func() error {
			err := d.deliver(ctx, template, rcpt)
			metrics.RecordEmail(kind, err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.log.Warn("email send failed", zap.String("kind", kind), zap.String("to", rcpt.Email), zap.Error(err))
				report.Failed++
				report.Result.Failed = append(report.Result.Failed, models.BulkFailure{ID: rcpt.ID, Email: rcpt.Email, Error: err.Error()})
				return nil
			}
			report.Succeeded++
			report.Result.Succeeded = append(report.Result.Succeeded, rcpt.Email)
			return nil
		})
	}
	_ = g.Wait()
	return report
}

func (d *Dispatcher) deliver(ctx context.Context, template mailer.Message, rcpt recipient) error {
	msg := template
	msg.To = rcpt.Email
	if rcpt.Vars != nil {
		if err := d.renderer.Personalize(&msg, rcpt.Vars); err != nil {
			return err
		}
	}
	_, err := d.sender.Send(ctx, &msg)
	return err
}

// contactVars exposes a contact to merge tags: {{ first_name }}, {{ email }}, custom field keys
func contactVars(c *models.Contact) map[string]interface{} {
	vars := make(map[string]interface{}, len(c.CustomFields)+6)
	for k, v := range c.CustomFields {
		vars[k] = v.String()
	}
	vars["first_name"] = c.FirstName
	vars["last_name"] = c.LastName
	vars["email"] = c.Email
	vars["country"] = c.Country
	vars["city"] = c.City
	vars["score"] = strconv.FormatFloat(c.Score, 'f', -1, 64)
	return vars
}

func contactRecipient(c *models.Contact) recipient {
	return recipient{ID: c.ID.Hex(), Email: c.Email, Vars: contactVars(c)}
}
