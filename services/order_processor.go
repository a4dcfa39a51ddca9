package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"sportsstore/models"
	"sportsstore/repository"
	"sportsstore/sender"

	aws_pkg "sportsstore/pkg/aws"

	"go.uber.org/zap"
)

// OrderProcessor submits a checked-out order.
type OrderProcessor interface {
	ProcessOrder(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails) error
}

// EmailSettings configures how order confirmations are delivered.
type EmailSettings struct {
	MailTo       string
	MailFrom     string
	UseSSL       bool
	Username     string
	Password     string
	ServerName   string
	ServerPort   int
	WriteAsFile  bool
	FileLocation string
}

// DefaultEmailSettings mirrors the stock storefront configuration.
func DefaultEmailSettings() EmailSettings {
	return EmailSettings{
		MailTo:       "orders@example.com",
		MailFrom:     "sportsstore@example.com",
		ServerName:   "smtp.example.com",
		ServerPort:   587,
		FileLocation: "./sports_store_emails",
	}
}

// NewEmailSender picks the transport for settings: a file or S3 object when
// WriteAsFile is set, SMTP otherwise. putter may be nil unless FileLocation
// is an s3:// location.
func NewEmailSender(settings EmailSettings, putter aws_pkg.ObjectPutter) (sender.EmailSender, error) {
	if !settings.WriteAsFile {
		return sender.NewSMTPSender(sender.SMTPConfig{
			Host:     settings.ServerName,
			Port:     settings.ServerPort,
			Username: settings.Username,
			Password: settings.Password,
			From:     settings.MailFrom,
			UseSSL:   settings.UseSSL,
		})
	}
	if sender.IsS3Location(settings.FileLocation) {
		if putter == nil {
			return nil, fmt.Errorf("s3 location %s needs an object store", settings.FileLocation)
		}
		return sender.NewS3Sender(putter, settings.FileLocation, settings.MailFrom)
	}
	return sender.NewFileSender(settings.FileLocation, settings.MailFrom)
}

// MetricsRecorder is the subset of the CloudWatch client used here.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
}

const orderSubject = "New order submitted!"

var orderTemplate = template.Must(template.New("order").Funcs(template.FuncMap{
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
}).Parse(`A new order has been submitted
---
Order: {{.ID}}
Items:
{{range .Lines}}{{.Quantity}} x {{.Product.Name}} (subtotal: {{.Subtotal.StringFixed 2}})
{{end}}
Total order value: {{.Total.StringFixed 2}}
---
Ship to:
{{.Shipping.Name}}
{{.Shipping.Line1}}
{{with .Shipping.Line2}}{{.}}
{{end}}{{with .Shipping.Line3}}{{.}}
{{end}}{{.Shipping.City}}
{{.Shipping.State}}
{{.Shipping.Country}}
{{.Shipping.Zip}}
---
Gift wrap: {{yesno .Shipping.GiftWrap}}
`))

// EmailOrderProcessor mails an order summary to the store. Receipts, events
// and metrics are optional and never fail the order.
type EmailOrderProcessor struct {
	settings  EmailSettings
	sender    sender.EmailSender
	receipts  repository.ReceiptRepository
	publisher Publisher
	metrics   MetricsRecorder
	logger    *zap.Logger
}

// Publisher matches events.Publisher.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

func NewEmailOrderProcessor(
	settings EmailSettings,
	emailSender sender.EmailSender,
	receipts repository.ReceiptRepository,
	publisher Publisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *EmailOrderProcessor {
	return &EmailOrderProcessor{
		settings:  settings,
		sender:    emailSender,
		receipts:  receipts,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (p *EmailOrderProcessor) ProcessOrder(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails) error {
	order := models.NewOrder(cart, shipping)

	var body bytes.Buffer
	if err := orderTemplate.Execute(&body, order); err != nil {
		return fmt.Errorf("render order email: %w", err)
	}

	result, err := p.sender.SendEmail(ctx, p.settings.MailTo, orderSubject, body.String())
	p.saveReceipt(ctx, order, result, err)
	if err != nil {
		p.recordCount(ctx, aws_pkg.MetricOrdersFailed)
		return fmt.Errorf("send order %s: %w", order.ID, err)
	}

	p.logger.Info("Order submitted",
		zap.String("order_id", order.ID.String()),
		zap.String("channel", result.Channel),
		zap.String("message_id", result.MessageID),
		zap.String("total", order.Total.StringFixed(2)),
	)

	p.publishSubmitted(ctx, order)
	p.recordCount(ctx, aws_pkg.MetricOrdersCreated)
	if p.metrics != nil {
		total, _ := order.Total.Float64()
		if err := p.metrics.RecordValue(ctx, aws_pkg.MetricOrderValue, total, nil); err != nil {
			p.logger.Warn("Failed to record order value", zap.Error(err))
		}
	}
	return nil
}

func (p *EmailOrderProcessor) saveReceipt(ctx context.Context, order models.Order, result sender.SendResult, sendErr error) {
	if p.receipts == nil {
		return
	}
	receipt := &models.OrderReceipt{
		OrderID:   order.ID.String(),
		Recipient: p.settings.MailTo,
		Channel:   result.Channel,
		Status:    models.ReceiptSent,
		MessageID: result.MessageID,
		Total:     order.Total,
	}
	if sendErr != nil {
		receipt.Status = models.ReceiptFailed
		receipt.Error = sendErr.Error()
	}
	if receipt.Channel == "" {
		receipt.Channel = p.channel()
	}
	if err := p.receipts.SaveReceipt(ctx, receipt); err != nil {
		p.logger.Error("Failed to save order receipt", zap.String("order_id", receipt.OrderID), zap.Error(err))
	}
}

func (p *EmailOrderProcessor) channel() string {
	switch {
	case !p.settings.WriteAsFile:
		return models.ChannelEmail
	case sender.IsS3Location(p.settings.FileLocation):
		return models.ChannelS3
	default:
		return models.ChannelFile
	}
}

func (p *EmailOrderProcessor) publishSubmitted(ctx context.Context, order models.Order) {
	if p.publisher == nil {
		return
	}

	event := models.OrderSubmittedEvent{
		EventType: models.EventOrderSubmitted,
		OrderID:   order.ID.String(),
		Total:     order.Total,
		Country:   order.Shipping.Country,
		GiftWrap:  order.Shipping.GiftWrap,
		Timestamp: order.SubmittedAt,
	}
	for _, l := range order.Lines {
		event.Items = append(event.Items, models.OrderEventItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal order_submitted event", zap.Error(err))
		return
	}
	if err := p.publisher.Publish(ctx, event.OrderID, payload); err != nil {
		p.logger.Error("Failed to publish order_submitted event", zap.String("order_id", event.OrderID), zap.Error(err))
		return
	}
	p.logger.Info("Published order_submitted event", zap.String("order_id", event.OrderID))
}

func (p *EmailOrderProcessor) recordCount(ctx context.Context, metric string) {
	if p.metrics == nil {
		return
	}
	if err := p.metrics.RecordCount(ctx, metric, map[string]string{"Channel": p.channel()}); err != nil {
		p.logger.Warn("Failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}
