package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"spamguard/internal/apiclient"
	"spamguard/internal/bypass"
	"spamguard/internal/config"
	"spamguard/internal/models"
	"spamguard/internal/policy"
	"spamguard/internal/repository"
)

// Content is the subset of the host platform's content object the pipeline
// needs. Hide and delete capabilities are optional; see Hideable/Deletable.
type Content interface {
	ContentID() int64
	Body() string
	Author() bypass.Member
}

// Hideable is implemented by content that can be hidden from public view.
type Hideable interface {
	Hide() error
}

// Deletable is implemented by content that can be removed.
type Deletable interface {
	Delete() error
}

// Notifier delivers admin notifications. Implementations must be
// fire-and-forget: any delivery failure is logged internally, never returned.
type Notifier interface {
	Notify(text string)
}

// Pipeline runs the spam-decision flow for a single content event:
// bypass -> API call -> normalization -> threshold decision -> audit log
// (best effort) -> enforcement. Every API or persistence failure fails open.
type Pipeline struct {
	cfg        *config.Config
	client     *apiclient.Client
	repo       repository.ScanLogRepository
	notifier   Notifier
	logger     *zap.Logger
	thresholds policy.Thresholds
}

// NewPipeline creates a pipeline. Configuration is captured once here, not
// re-read per call.
func NewPipeline(
	cfg *config.Config,
	client *apiclient.Client,
	repo repository.ScanLogRepository,
	notifier Notifier,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		client:   client,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		thresholds: policy.Thresholds{
			Spam:             cfg.Checks.SpamThreshold,
			Suspicious:       cfg.Checks.SuspiciousThreshold,
			BlockedAction:    policy.ParseAction(cfg.Checks.ActionBlocked, policy.ActionBlock),
			SuspiciousAction: policy.ParseAction(cfg.Checks.ActionSuspicious, policy.ActionModerate),
		},
	}
}

var allowed = policy.Decision{Status: policy.StatusSafe, Action: policy.ActionAllow}

// EvaluatePost checks a forum post after it has been persisted and enforces
// the resulting action on it.
func (p *Pipeline) EvaluatePost(ctx context.Context, post Content, ipAddress string) policy.Decision {
	if !p.cfg.IsEnabled() || !p.cfg.Checks.Posts {
		return allowed
	}
	return p.evaluateContent(ctx, post, ipAddress, apiclient.SourceForum, "post")
}

// EvaluateMessage checks a private message after it has been persisted and
// enforces the resulting action on it.
func (p *Pipeline) EvaluateMessage(ctx context.Context, msg Content, ipAddress string) policy.Decision {
	if !p.cfg.IsEnabled() || !p.cfg.Checks.Messages {
		return allowed
	}
	return p.evaluateContent(ctx, msg, ipAddress, apiclient.SourceMessage, "message")
}

func (p *Pipeline) evaluateContent(ctx context.Context, item Content, ipAddress string, source apiclient.Source, contentType string) policy.Decision {
	member := item.Author()
	if bypass.ShouldBypass(member, p.cfg.Checks.BypassGroupIDs) {
		return allowed
	}

	content := StripMarkup(item.Body())
	if content == "" {
		return allowed
	}

	resp, err := p.check(ctx, apiclient.ScanRequest{
		Content:   content,
		Source:    source,
		IPAddress: ipAddress,
	}, contentType)
	if resp == nil || err != nil {
		return allowed
	}

	score := resp.SpamScore()
	decision := policy.Decide(score, p.thresholds)

	var memberID *int64
	if member != nil {
		id := member.MemberID()
		memberID = &id
	}
	contentID := item.ContentID()

	p.audit(repository.NewScanLog(
		memberID, contentType, &contentID, ipAddress,
		decision.Status.String(), score,
		resp.Symbols(), resp.ThreatCategories(),
		decision.Action.String(), content,
	))

	switch source {
	case apiclient.SourceMessage:
		p.executeMessageAction(decision.Action, item, member, score)
	default:
		p.executePostAction(decision.Action, item, member, score)
	}

	return decision
}

// EvaluateRegistration checks a new registration and merges the outcome with
// the platform's own spam verdict (1=clean, 2=moderate, 3=review, 4=block).
// The merged result is never less restrictive than the parent verdict.
func (p *Pipeline) EvaluateRegistration(ctx context.Context, username, email, ipAddress string, parent int) int {
	if !p.cfg.IsEnabled() || !p.cfg.Checks.Registrations {
		return parent
	}

	content := username
	if email != "" {
		content += " " + email
	}

	resp, err := p.check(ctx, apiclient.ScanRequest{
		Content:   content,
		Source:    apiclient.SourceRegistration,
		IPAddress: ipAddress,
		Username:  username,
		Email:     email,
	}, "registration")
	if resp == nil || err != nil {
		return parent
	}

	score := resp.SpamScore()
	decision := policy.Decide(score, p.thresholds)

	preview := "Username: " + username + ", Email: "
	if email != "" {
		preview += email
	} else {
		preview += "N/A"
	}

	p.audit(repository.NewScanLog(
		nil, "registration", nil, ipAddress,
		decision.Status.String(), score,
		resp.Symbols(), resp.ThreatCategories(),
		decision.Action.String(), preview,
	))

	p.logger.Info("Registration spam check",
		zap.String("username", username),
		zap.Float64("score", score),
		zap.String("action", decision.Action.String()))

	if decision.Action != policy.ActionAllow {
		p.notify(fmt.Sprintf("Registration %s: %q scored %.2f", decision.Status, username, score))
	}

	return policy.MergeRegistration(decision.Action, parent)
}

// check issues the API call. Both transport failures and well-formed error
// responses are logged and reported as a nil response so callers fail open.
func (p *Pipeline) check(ctx context.Context, req apiclient.ScanRequest, contentType string) (*apiclient.Response, error) {
	resp, err := p.client.CheckSpam(ctx, req)
	if err != nil {
		p.logger.Error("Spam check failed, allowing content",
			zap.String("content_type", contentType), zap.Error(err))
		return nil, err
	}
	if !resp.Success {
		p.logger.Error("Scoring API returned an error, allowing content",
			zap.String("content_type", contentType),
			zap.Int("http_code", resp.HTTPCode),
			zap.String("api_error", resp.Err))
		return nil, nil
	}
	return resp, nil
}

// audit appends one log row. Persistence failures are routed to the
// operational log and never reach the caller.
func (p *Pipeline) audit(entry *models.ScanLog) {
	if p.repo == nil {
		return
	}
	if err := p.repo.Insert(entry); err != nil {
		p.logger.Error("Failed to write scan log entry",
			zap.String("content_type", entry.ContentType), zap.Error(err))
	}
}

// notify delivers an admin notification. Delivery problems never affect the
// primary action outcome.
func (p *Pipeline) notify(text string) {
	if p.notifier == nil {
		return
	}
	p.notifier.Notify(text)
}
