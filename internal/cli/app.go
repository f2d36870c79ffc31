package cli

import (
	"errors"
	"fmt"
	"net/http"

	"call-digest-go/internal/config"
	"call-digest-go/internal/dedup"
	"call-digest-go/internal/directory"
	"call-digest-go/internal/httpx"
	"call-digest-go/internal/logger"
	"call-digest-go/internal/pipeline"
	"call-digest-go/internal/processor"
	"call-digest-go/internal/provider"
	"call-digest-go/internal/slack"
	"call-digest-go/internal/transcription"
	"call-digest-go/internal/types"
)

var errNoAgent = errors.New("set AGENT_PHONE or AGENT_DIRECTORY_FILE")

// buildProcessor wires the clients, the pipeline and the orchestrator from cfg.
func buildProcessor(cfg *config.Config, log *logger.Logger) (*processor.Processor, error) {
	dir, err := buildDirectory(cfg.Agent)
	if err != nil {
		return nil, err
	}
	log.WithField("agents", dir.Len()).WithField("primary", dir.Primary().Name).Info("agent directory ready")

	sender := &httpx.Sender{HTTP: &http.Client{}, MaxRetries: cfg.Cycle.MaxRetries}

	calls := provider.NewClient(provider.Config{
		BaseURL:  cfg.Provider.BaseURL,
		SID:      cfg.Provider.SID,
		APIKey:   cfg.Provider.APIKey,
		APIToken: cfg.Provider.APIToken,
		PageSize: cfg.Provider.PageSize,
	}, sender, log)

	transcriber := transcription.NewClient(transcription.Config{
		URL:      cfg.Transcription.URL,
		APIKey:   cfg.Transcription.APIKey,
		Model:    cfg.Transcription.Model,
		Language: cfg.Transcription.Language,
	}, sender, log)

	publisher := &slack.Client{
		Token:     cfg.Slack.BotToken,
		Channel:   cfg.Slack.Channel,
		BaseURL:   cfg.Slack.APIURL,
		Webhook:   cfg.Slack.Webhook,
		Username:  cfg.Slack.Username,
		IconEmoji: cfg.Slack.IconEmoji,
		Sender:    sender,
		Log:       log.With("component", "slack"),
	}

	pl := pipeline.New(calls, transcriber, publisher, dir, pipeline.Labels{
		Exophone:    cfg.Message.Exophone,
		FlowName:    cfg.Message.FlowName,
		CompanyName: cfg.Message.CompanyName,
	}, log)

	return processor.New(calls, pl, dedup.NewLedger(), cfg.Cycle.Workers, log), nil
}

// buildDirectory prefers the roster file and falls back to the single agent
// described by the AGENT_* variables.
func buildDirectory(cfg config.AgentConfig) (*directory.Directory, error) {
	if cfg.DirectoryFile != "" {
		dir, err := directory.Load(cfg.DirectoryFile)
		if err != nil {
			return nil, fmt.Errorf("load agent directory: %w", err)
		}
		return dir, nil
	}
	if cfg.Phone == "" {
		return nil, errNoAgent
	}
	return directory.New(types.Agent{
		Name:        cfg.Name,
		SlackHandle: cfg.SlackHandle,
		Department:  cfg.Department,
		Phone:       cfg.Phone,
	})
}
