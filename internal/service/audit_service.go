package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/survey-vote-service/internal/config"
	"github.com/spec-kit/survey-vote-service/internal/events"
)

// AuditService writes an audit trail for vote and survey lifecycle
// events. Respondent ids are logged, selections are not.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventVoteRecorded, a.handleVoteRecorded)
	a.dispatcher.Subscribe(events.EventSurveyCreated, a.handleSurveyLifecycle)
	a.dispatcher.Subscribe(events.EventSurveyActivated, a.handleSurveyLifecycle)
	a.dispatcher.Subscribe(events.EventSurveyArchived, a.handleSurveyLifecycle)
	a.dispatcher.Subscribe(events.EventSurveyDeleted, a.handleSurveyLifecycle)
}

func (a *AuditService) handleVoteRecorded(ctx context.Context, event events.Event) error {
	a.logger.Info("VoteRecorded", zap.String("survey_id", event.SurveyID), zap.Any("payload", event.Payload))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AuditService) handleSurveyLifecycle(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), zap.String("survey_id", event.SurveyID), zap.Any("payload", event.Payload))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AuditService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("survey_id", event.SurveyID),
		zap.String("event_type", string(event.Type)))
}
