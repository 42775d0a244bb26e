package app

import (
	"time"

	"go.uber.org/dig"

	"dispatcherhub/internal/config"
	"dispatcherhub/internal/events"
	dispatchgw "dispatcherhub/internal/gateway/dispatch"
	"dispatcherhub/internal/inflight"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/mailer"
	"dispatcherhub/internal/metrics"
	"dispatcherhub/internal/repository"
	"dispatcherhub/internal/service/auth"
	"dispatcherhub/internal/service/dispatch"
	"dispatcherhub/internal/service/invoices"
	"dispatcherhub/internal/service/loads"
	"dispatcherhub/internal/transport/kafka"
)

// publisherCloser releases the event publisher on shutdown.
type publisherCloser func() error

type publisherOut struct {
	dig.Out

	Publisher events.Publisher
	Closer    publisherCloser
}

// providePublisher sends load events to Kafka when brokers are configured and
// straight to the invoicer otherwise.
func providePublisher(cfg *config.Config, inv *invoices.Invoicer, logger logx.Logger) (publisherOut, error) {
	if !cfg.Kafka.Enabled() {
		logger.Info("kafka not configured, invoicing in-process")
		return publisherOut{
			Publisher: events.Func(inv.Handle),
			Closer:    func() error { return nil },
		}, nil
	}

	p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return publisherOut{}, err
	}
	logger.Info("publishing load events to kafka",
		logx.String("topic", cfg.Kafka.Topic),
		logx.Int("brokers", len(cfg.Kafka.Brokers)),
	)
	return publisherOut{Publisher: p, Closer: p.Close}, nil
}

func provideMailer(cfg *config.Config, logger logx.Logger) mailer.Mailer {
	if cfg.SMTP.Host == "" {
		return mailer.NewLogMailer(logger)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	})
}

func provideInvoicer(cfg *config.Config, repo *repository.InvoiceRepo, m *metrics.Domain, logger logx.Logger, timeout time.Duration) *invoices.Invoicer {
	return invoices.NewInvoicer(repo, cfg.Invoicing.Factoring, m, logger, timeout)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		provideInvoicer,
		providePublisher,
		provideMailer,
		func(repo *repository.LoadRepo, pub events.Publisher, m *metrics.Domain, logger logx.Logger, cfg *config.Config, timeout time.Duration) *loads.Service {
			return loads.NewService(repo, pub, m, logger, loads.Options{
				Timeout:           timeout,
				StrictTransitions: cfg.Loads.StrictTransitions,
			})
		},
		func(repo *repository.InvoiceRepo, timeout time.Duration) *invoices.Service {
			return invoices.NewService(repo, timeout)
		},
		auth.NewBroker,
		func(repo *repository.AuthRepo, m mailer.Mailer, b *auth.Broker, cfg *config.Config, logger logx.Logger, timeout time.Duration) *auth.Service {
			return auth.NewService(repo, m, b, auth.Config{
				Secret:     cfg.Auth.Secret,
				LinkTTL:    cfg.Auth.LinkTTL,
				SessionTTL: cfg.Auth.SessionTTL,
				PublicURL:  cfg.PublicURL,
				Timeout:    timeout,
			}, logger)
		},
		func(cfg *config.Config, m *metrics.Domain) *dispatchgw.Client {
			return dispatchgw.NewClient(cfg.DispatchAPI.BaseURL, cfg.DispatchAPI.Timeout, m.DispatchAPIRequests)
		},
		inflight.New,
		func(gw *dispatchgw.Client, set *inflight.Set, logger logx.Logger) *dispatch.Panel {
			return dispatch.NewPanel(gw, set, logger)
		},
	)
}
