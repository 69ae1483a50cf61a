package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"rsvpbook/internal/mailer"
)

type ServerConfig struct {
	Port                 string
	PublicURL            string
	SeedOnStart          bool
	ReminderDelayMinutes int
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	serverCfg := ServerConfig{
		Port:                 cfg.GetString("server.port"),
		PublicURL:            cfg.GetString("server.public_url"),
		SeedOnStart:          cfg.GetBool("server.seed_on_start"),
		ReminderDelayMinutes: cfg.GetInt("server.reminder_delay_minutes"),
	}
	if serverCfg.Port == "" {
		serverCfg.Port = "8080"
	}
	if serverCfg.PublicURL == "" {
		serverCfg.PublicURL = "http://localhost:" + serverCfg.Port
	}
	if serverCfg.ReminderDelayMinutes <= 0 {
		serverCfg.ReminderDelayMinutes = 60 * 24
	}
	log.Info().Str("port", serverCfg.Port).Str("public_url", serverCfg.PublicURL).Msg("server config loaded")
	return serverCfg
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database.master_dsn is not set")
	}
	slaveDSNs := cfg.GetStringSlice("database.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("database.conn_max_lifetime_minutes")) * time.Minute,
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}

	log.Info().Int("slaves", len(slaveDSNs)).Msg("database config loaded")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rabbitCfg := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rabbitCfg.Url == "" {
		return RabbitConfig{}, fmt.Errorf("rabbit.url is not set")
	}
	if rabbitCfg.Exchange == "" {
		rabbitCfg.Exchange = "rsvp.mail.delayed"
	}
	if rabbitCfg.Queue == "" {
		rabbitCfg.Queue = "rsvp.mail"
	}
	log.Info().Str("exchange", rabbitCfg.Exchange).Str("queue", rabbitCfg.Queue).Msg("rabbit config loaded")
	return rabbitCfg, nil
}

func BuildMailConfig(cfg *config.Config, log *zerolog.Logger) (mailer.Config, error) {
	mailCfg := mailer.Config{
		From:     cfg.GetString("mail.from"),
		Password: cfg.GetString("mail.password"),
		Host:     cfg.GetString("mail.smtp_host"),
		Port:     cfg.GetString("mail.smtp_port"),
	}
	if mailCfg.From == "" {
		return mailer.Config{}, fmt.Errorf("mail.from is not set")
	}
	if mailCfg.Host == "" {
		mailCfg.Host = "smtp.gmail.com"
	}
	if mailCfg.Port == "" {
		mailCfg.Port = "587"
	}
	log.Info().Str("from", mailCfg.From).Str("host", mailCfg.Host).Msg("mail config loaded")
	return mailCfg, nil
}
